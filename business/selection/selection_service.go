package selection

import (
	"context"
	"fmt"
	"time"

	"lexiDaily/domain"
	"lexiDaily/pkg/logger"
	"lexiDaily/pkg/metrics"
)

// ---- Repository interfaces ----

type WordPoolRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.WordPoolEntry, error)
	// PickUnused returns the first eligible word without a usage row in the
	// given global cycle, ordered by (id * seed) mod MaxInt32.
	PickUnused(ctx context.Context, cycle int, seed int64) (domain.WordPoolEntry, bool, error)
	// PickUnusedInBand is the per-user variant, scoped to a difficulty band
	// and the user's usage rows for that band and cycle.
	PickUnusedInBand(ctx context.Context, userID uint, difficulty domain.Difficulty, cycle int, seed int64) (domain.WordPoolEntry, bool, error)
	CountEligible(ctx context.Context) (int64, error)
}

type CycleRepository interface {
	CurrentCycle(ctx context.Context) (int, error)
	AdvanceCycle(ctx context.Context) error
}

type UserCycleRepository interface {
	CurrentCycle(ctx context.Context, userID uint, difficulty domain.Difficulty) (int, error)
	AdvanceCycle(ctx context.Context, userID uint, difficulty domain.Difficulty) error
}

type DailyWordRepository interface {
	FindByDate(ctx context.Context, date string) (domain.DailyWordAssignment, bool, error)
	// CreateWithUsage inserts the assignment and its usage row in one
	// transaction. created=false means a concurrent caller won the insert
	// race; the caller must re-read and trust the winner's row.
	CreateWithUsage(ctx context.Context, assignment *domain.DailyWordAssignment, usage *domain.WordUsageLog) (created bool, err error)
}

type UserWordRepository interface {
	FindByUserAndDate(ctx context.Context, userID uint, date string) (domain.UserWordAssignment, bool, error)
	Create(ctx context.Context, assignment *domain.UserWordAssignment) (created bool, err error)
	CreateWithUsage(ctx context.Context, assignment *domain.UserWordAssignment, usage *domain.UserWordUsageLog) (created bool, err error)
}

// ---- Results ----

type GlobalWordResult struct {
	WordID          uint64
	Word            string
	WasNewlyCreated bool
}

type UserWordResult struct {
	WordID              uint64
	Word                string
	WasNewlyCreated     bool
	RequestedDifficulty *domain.Difficulty
	EffectiveDifficulty *domain.Difficulty
	UsedFallback        bool
}

// ---- Service ----

type Service struct {
	wordRepo      WordPoolRepository
	cycleRepo     CycleRepository
	userCycleRepo UserCycleRepository
	dailyRepo     DailyWordRepository
	userWordRepo  UserWordRepository
	cache         WordCache
}

func NewService(
	wordRepo WordPoolRepository,
	cycleRepo CycleRepository,
	userCycleRepo UserCycleRepository,
	dailyRepo DailyWordRepository,
	userWordRepo UserWordRepository,
	cache WordCache,
) *Service {
	if cache == nil {
		cache = NoopWordCache{}
	}
	return &Service{
		wordRepo:      wordRepo,
		cycleRepo:     cycleRepo,
		userCycleRepo: userCycleRepo,
		dailyRepo:     dailyRepo,
		userWordRepo:  userWordRepo,
		cache:         cache,
	}
}

const dateLayout = "2006-01-02"

func validDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}
	return nil
}

// GetOrAssignGlobalWord returns the shared word of the day for the given
// calendar date, assigning one if the date has none yet. Deterministic:
// the same date always resolves to the same word.
func (s *Service) GetOrAssignGlobalWord(ctx context.Context, date string) (GlobalWordResult, error) {
	if err := ctx.Err(); err != nil {
		return GlobalWordResult{}, fmt.Errorf("context error: %w", err)
	}

	if err := validDate(date); err != nil {
		return GlobalWordResult{}, err
	}

	if wordID, ok, err := s.cache.GetWordID(ctx, date); err != nil {
		logger.Warn("daily word cache read failed", err)
	} else if ok {
		word, err := s.wordRepo.FindByID(ctx, wordID)
		if err == nil {
			return GlobalWordResult{WordID: wordID, Word: word.Text}, nil
		}
		logger.Warn("cached word missing from pool, falling through", "word_id", wordID)
	}

	if existing, ok, err := s.dailyRepo.FindByDate(ctx, date); err != nil {
		return GlobalWordResult{}, err
	} else if ok {
		return s.globalResult(ctx, existing, false)
	}

	seed := Seed(date)

	// Two bounded attempts: the current cycle, then once more after a
	// rollover. Anything beyond that is a data inconsistency, not flow
	// control.
	for attempt := 0; attempt < 2; attempt++ {
		cycle, err := s.cycleRepo.CurrentCycle(ctx)
		if err != nil {
			return GlobalWordResult{}, err
		}

		candidate, found, err := s.wordRepo.PickUnused(ctx, cycle, seed)
		if err != nil {
			return GlobalWordResult{}, err
		}

		if !found {
			if attempt > 0 {
				logger.Error("no candidate after cycle rollover", "date", date, "cycle", cycle)
				return GlobalWordResult{}, domain.ErrSelectionInvariant
			}

			eligible, err := s.wordRepo.CountEligible(ctx)
			if err != nil {
				return GlobalWordResult{}, err
			}
			if eligible == 0 {
				return GlobalWordResult{}, domain.ErrPoolEmpty
			}

			if err := s.cycleRepo.AdvanceCycle(ctx); err != nil {
				return GlobalWordResult{}, err
			}
			metrics.CycleAdvances.Inc()
			logger.Info("global cycle exhausted, advanced", "previous_cycle", cycle)
			continue
		}

		assignment := domain.DailyWordAssignment{WordForDate: date, WordID: candidate.ID}
		usage := domain.WordUsageLog{WordID: candidate.ID, Cycle: cycle, UsedOn: date}

		created, err := s.dailyRepo.CreateWithUsage(ctx, &assignment, &usage)
		if err != nil {
			return GlobalWordResult{}, err
		}
		if !created {
			// Lost the race; the winner's row is authoritative.
			winner, ok, err := s.dailyRepo.FindByDate(ctx, date)
			if err != nil {
				return GlobalWordResult{}, err
			}
			if !ok {
				return GlobalWordResult{}, domain.ErrSelectionInvariant
			}
			return s.globalResult(ctx, winner, false)
		}

		metrics.GlobalSelections.Inc()
		logger.Info("assigned global daily word", "date", date, "word_id", candidate.ID, "cycle", cycle)
		return s.globalResult(ctx, assignment, true)
	}

	return GlobalWordResult{}, domain.ErrSelectionInvariant
}

func (s *Service) globalResult(ctx context.Context, assignment domain.DailyWordAssignment, fresh bool) (GlobalWordResult, error) {
	word, err := s.wordRepo.FindByID(ctx, assignment.WordID)
	if err != nil {
		return GlobalWordResult{}, fmt.Errorf("failed to load assigned word: %w", err)
	}

	if err := s.cache.SetWordID(ctx, assignment.WordForDate, assignment.WordID); err != nil {
		logger.Warn("daily word cache write failed", err)
	}

	return GlobalWordResult{WordID: assignment.WordID, Word: word.Text, WasNewlyCreated: fresh}, nil
}

// GetOrAssignUserWord returns the word delivered to one user on one date.
// With no requested difficulty it mirrors the shared daily word; otherwise
// it walks the band fallback chain with per-(user, band) cycles.
func (s *Service) GetOrAssignUserWord(ctx context.Context, userID uint, date string, requested *domain.Difficulty) (UserWordResult, error) {
	if err := ctx.Err(); err != nil {
		return UserWordResult{}, fmt.Errorf("context error: %w", err)
	}

	if err := validDate(date); err != nil {
		return UserWordResult{}, err
	}

	if existing, ok, err := s.userWordRepo.FindByUserAndDate(ctx, userID, date); err != nil {
		return UserWordResult{}, err
	} else if ok {
		return s.userResult(ctx, existing, false)
	}

	if requested == nil {
		return s.assignGlobalToUser(ctx, userID, date)
	}

	return s.assignByDifficulty(ctx, userID, date, *requested)
}

func (s *Service) assignGlobalToUser(ctx context.Context, userID uint, date string) (UserWordResult, error) {
	global, err := s.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		return UserWordResult{}, err
	}

	assignment := domain.UserWordAssignment{
		UserID:      userID,
		WordForDate: date,
		WordID:      global.WordID,
	}

	created, err := s.userWordRepo.Create(ctx, &assignment)
	if err != nil {
		return UserWordResult{}, err
	}
	if !created {
		winner, ok, err := s.userWordRepo.FindByUserAndDate(ctx, userID, date)
		if err != nil {
			return UserWordResult{}, err
		}
		if !ok {
			return UserWordResult{}, domain.ErrSelectionInvariant
		}
		return s.userResult(ctx, winner, false)
	}

	metrics.UserSelections.Inc()
	return s.userResult(ctx, assignment, true)
}

func (s *Service) assignByDifficulty(ctx context.Context, userID uint, date string, requested domain.Difficulty) (UserWordResult, error) {
	chain := domain.FallbackChain(requested)

	// Three bounded passes over the chain: as-is, after advancing the
	// requested band's cycle, then after advancing the remaining chain
	// bands. Never loops beyond that; a dry third pass is the legitimate
	// "nothing matches your preferences today" outcome.
	for pass := 0; pass < 3; pass++ {
		for _, band := range chain {
			cycle, err := s.userCycleRepo.CurrentCycle(ctx, userID, band)
			if err != nil {
				return UserWordResult{}, err
			}

			seed := Seed(fmt.Sprintf("%s:%d:%s", date, userID, band))

			candidate, found, err := s.wordRepo.PickUnusedInBand(ctx, userID, band, cycle, seed)
			if err != nil {
				return UserWordResult{}, err
			}
			if !found {
				continue
			}

			effective := band
			assignment := domain.UserWordAssignment{
				UserID:              userID,
				WordForDate:         date,
				WordID:              candidate.ID,
				RequestedDifficulty: &requested,
				EffectiveDifficulty: &effective,
			}
			usage := domain.UserWordUsageLog{
				UserID:     userID,
				WordID:     candidate.ID,
				Difficulty: band,
				Cycle:      cycle,
				UsedOn:     date,
			}

			created, err := s.userWordRepo.CreateWithUsage(ctx, &assignment, &usage)
			if err != nil {
				return UserWordResult{}, err
			}
			if !created {
				winner, ok, err := s.userWordRepo.FindByUserAndDate(ctx, userID, date)
				if err != nil {
					return UserWordResult{}, err
				}
				if !ok {
					return UserWordResult{}, domain.ErrSelectionInvariant
				}
				return s.userResult(ctx, winner, false)
			}

			metrics.UserSelections.Inc()
			if assignment.UsedFallback() {
				metrics.FallbackSelections.Inc()
				logger.Info("personalized selection used fallback band",
					"user_id", userID, "date", date, "requested", requested, "effective", band)
			}
			return s.userResult(ctx, assignment, true)
		}

		switch pass {
		case 0:
			if err := s.userCycleRepo.AdvanceCycle(ctx, userID, requested); err != nil {
				return UserWordResult{}, err
			}
			metrics.CycleAdvances.Inc()
		case 1:
			for _, band := range chain {
				if band == requested {
					continue
				}
				if err := s.userCycleRepo.AdvanceCycle(ctx, userID, band); err != nil {
					return UserWordResult{}, err
				}
				metrics.CycleAdvances.Inc()
			}
		}
	}

	return UserWordResult{}, domain.ErrNoWordsForPreferences
}

func (s *Service) userResult(ctx context.Context, assignment domain.UserWordAssignment, fresh bool) (UserWordResult, error) {
	word, err := s.wordRepo.FindByID(ctx, assignment.WordID)
	if err != nil {
		return UserWordResult{}, fmt.Errorf("failed to load assigned word: %w", err)
	}

	return UserWordResult{
		WordID:              assignment.WordID,
		Word:                word.Text,
		WasNewlyCreated:     fresh,
		RequestedDifficulty: assignment.RequestedDifficulty,
		EffectiveDifficulty: assignment.EffectiveDifficulty,
		UsedFallback:        assignment.UsedFallback(),
	}, nil
}
