//go:build !integration

package selection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"lexiDaily/domain"
)

// fakeStore is an in-memory stand-in for the postgres repositories. It
// replicates the pieces the service depends on: the pseudo-shuffle
// ordering, the unique indexes, and the usage bookkeeping.
type fakeStore struct {
	words map[uint64]domain.WordPoolEntry

	globalCycle int
	userCycles  map[string]int // "user|band"

	globalUsage map[string]bool // "word|cycle"
	userUsage   map[string]bool // "user|word|band|cycle"

	daily     map[string]domain.DailyWordAssignment // date
	userDaily map[string]domain.UserWordAssignment  // "user|date"

	globalAdvances int
	userAdvances   map[string]int

	// test hooks
	beforeDailyCreate func()
	beforeUserCreate  func()
	pickAlwaysMiss    bool
}

func newFakeStore(words ...domain.WordPoolEntry) *fakeStore {
	s := &fakeStore{
		words:       make(map[uint64]domain.WordPoolEntry),
		globalCycle: 1,
		userCycles:  make(map[string]int),
		globalUsage: make(map[string]bool),
		userUsage:   make(map[string]bool),
		daily:       make(map[string]domain.DailyWordAssignment),
		userDaily:   make(map[string]domain.UserWordAssignment),
		userAdvances: make(map[string]int),
	}
	for _, w := range words {
		s.words[w.ID] = w
	}
	return s
}

func word(id uint64, text string, tier *int) domain.WordPoolEntry {
	return domain.WordPoolEntry{ID: id, Text: text, Tier: tier, Enabled: true, EnrichmentStatus: domain.EnrichmentReady}
}

func tierPtr(v int) *int { return &v }

func shuffleKey(id uint64, seed int64) int64 {
	return (int64(id) * seed) % math.MaxInt32
}

// pick mirrors the repository's ORDER BY (id * seed) % MaxInt32 with the
// primary key as tiebreaker.
func (s *fakeStore) pick(seed int64, usable func(domain.WordPoolEntry) bool) (domain.WordPoolEntry, bool) {
	var candidates []domain.WordPoolEntry
	for _, w := range s.words {
		if w.Selectable() && usable(w) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return domain.WordPoolEntry{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		ki, kj := shuffleKey(candidates[i].ID, seed), shuffleKey(candidates[j].ID, seed)
		if ki != kj {
			return ki < kj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

func (s *fakeStore) FindByID(_ context.Context, id uint64) (domain.WordPoolEntry, error) {
	w, ok := s.words[id]
	if !ok {
		return domain.WordPoolEntry{}, domain.ErrWordNotFound
	}
	return w, nil
}

func (s *fakeStore) PickUnused(_ context.Context, cycle int, seed int64) (domain.WordPoolEntry, bool, error) {
	if s.pickAlwaysMiss {
		return domain.WordPoolEntry{}, false, nil
	}
	w, ok := s.pick(seed, func(w domain.WordPoolEntry) bool {
		return !s.globalUsage[fmt.Sprintf("%d|%d", w.ID, cycle)]
	})
	return w, ok, nil
}

func (s *fakeStore) PickUnusedInBand(_ context.Context, userID uint, band domain.Difficulty, cycle int, seed int64) (domain.WordPoolEntry, bool, error) {
	w, ok := s.pick(seed, func(w domain.WordPoolEntry) bool {
		if domain.DifficultyForTier(w.Tier) != band {
			return false
		}
		return !s.userUsage[fmt.Sprintf("%d|%d|%s|%d", userID, w.ID, band, cycle)]
	})
	return w, ok, nil
}

func (s *fakeStore) CountEligible(_ context.Context) (int64, error) {
	var n int64
	for _, w := range s.words {
		if w.Selectable() {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CurrentCycle(_ context.Context) (int, error) {
	return s.globalCycle, nil
}

func (s *fakeStore) AdvanceCycle(_ context.Context) error {
	s.globalCycle++
	s.globalAdvances++
	return nil
}

func (s *fakeStore) userCycleKey(userID uint, band domain.Difficulty) string {
	return fmt.Sprintf("%d|%s", userID, band)
}

func (s *fakeStore) userCurrentCycle(userID uint, band domain.Difficulty) int {
	if c, ok := s.userCycles[s.userCycleKey(userID, band)]; ok {
		return c
	}
	return 1
}

func (s *fakeStore) FindByDate(_ context.Context, date string) (domain.DailyWordAssignment, bool, error) {
	a, ok := s.daily[date]
	return a, ok, nil
}

func (s *fakeStore) CreateWithUsage(_ context.Context, assignment *domain.DailyWordAssignment, usage *domain.WordUsageLog) (bool, error) {
	if s.beforeDailyCreate != nil {
		hook := s.beforeDailyCreate
		s.beforeDailyCreate = nil
		hook()
	}
	if _, exists := s.daily[assignment.WordForDate]; exists {
		return false, nil
	}
	usageKey := fmt.Sprintf("%d|%d", usage.WordID, usage.Cycle)
	if s.globalUsage[usageKey] {
		return false, nil
	}
	s.daily[assignment.WordForDate] = *assignment
	s.globalUsage[usageKey] = true
	return true, nil
}

func (s *fakeStore) userDailyKey(userID uint, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (s *fakeStore) FindByUserAndDate(_ context.Context, userID uint, date string) (domain.UserWordAssignment, bool, error) {
	a, ok := s.userDaily[s.userDailyKey(userID, date)]
	return a, ok, nil
}

func (s *fakeStore) Create(_ context.Context, assignment *domain.UserWordAssignment) (bool, error) {
	key := s.userDailyKey(assignment.UserID, assignment.WordForDate)
	if _, exists := s.userDaily[key]; exists {
		return false, nil
	}
	s.userDaily[key] = *assignment
	return true, nil
}

// userCycleRepo and userUsage live behind distinct service interfaces but
// share this store, same as the real tables share the database.

type fakeUserCycles struct{ store *fakeStore }

func (f fakeUserCycles) CurrentCycle(_ context.Context, userID uint, band domain.Difficulty) (int, error) {
	return f.store.userCurrentCycle(userID, band), nil
}

func (f fakeUserCycles) AdvanceCycle(_ context.Context, userID uint, band domain.Difficulty) error {
	key := f.store.userCycleKey(userID, band)
	f.store.userCycles[key] = f.store.userCurrentCycle(userID, band) + 1
	f.store.userAdvances[key]++
	return nil
}

type fakeUserWords struct{ store *fakeStore }

func (f fakeUserWords) FindByUserAndDate(ctx context.Context, userID uint, date string) (domain.UserWordAssignment, bool, error) {
	return f.store.FindByUserAndDate(ctx, userID, date)
}

func (f fakeUserWords) Create(ctx context.Context, assignment *domain.UserWordAssignment) (bool, error) {
	return f.store.Create(ctx, assignment)
}

func (f fakeUserWords) CreateWithUsage(_ context.Context, assignment *domain.UserWordAssignment, usage *domain.UserWordUsageLog) (bool, error) {
	if f.store.beforeUserCreate != nil {
		hook := f.store.beforeUserCreate
		f.store.beforeUserCreate = nil
		hook()
	}
	key := f.store.userDailyKey(assignment.UserID, assignment.WordForDate)
	if _, exists := f.store.userDaily[key]; exists {
		return false, nil
	}
	usageKey := fmt.Sprintf("%d|%d|%s|%d", usage.UserID, usage.WordID, usage.Difficulty, usage.Cycle)
	if f.store.userUsage[usageKey] {
		return false, nil
	}
	f.store.userDaily[key] = *assignment
	f.store.userUsage[usageKey] = true
	return true, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, store, fakeUserCycles{store}, store, fakeUserWords{store}, nil)
}

// ---- Global word ----

func TestGlobalWord_DeterministicAndIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(
		word(1, "serendipity", tierPtr(70)),
		word(2, "cat", tierPtr(10)),
		word(3, "nuance", tierPtr(50)),
	)
	svc := newTestService(store)

	const date = "2024-02-03"

	first, err := svc.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !first.WasNewlyCreated {
		t.Error("first call should create the assignment")
	}

	// Manually replay the ordering the repository applies.
	seed := Seed(date)
	var wantID uint64
	wantKey := int64(math.MaxInt64)
	for id := uint64(1); id <= 3; id++ {
		if k := shuffleKey(id, seed); k < wantKey {
			wantKey, wantID = k, id
		}
	}
	if first.WordID != wantID {
		t.Errorf("WordID = %d, want %d (seed %d)", first.WordID, wantID, seed)
	}

	second, err := svc.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.WordID != first.WordID {
		t.Errorf("second call returned %d, want %d", second.WordID, first.WordID)
	}
	if second.WasNewlyCreated {
		t.Error("second call must not report a fresh assignment")
	}
}

func TestGlobalWord_NoRepeatWithinCycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(
		word(1, "alpha", nil),
		word(2, "bravo", nil),
		word(3, "charlie", nil),
		word(4, "delta", nil),
		word(5, "echo", nil),
	)
	svc := newTestService(store)

	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"}
	seen := make(map[uint64]string)

	for _, date := range dates {
		res, err := svc.GetOrAssignGlobalWord(ctx, date)
		if err != nil {
			t.Fatalf("date %s: %v", date, err)
		}
		if prev, dup := seen[res.WordID]; dup {
			t.Errorf("word %d served on both %s and %s within one cycle", res.WordID, prev, date)
		}
		seen[res.WordID] = date
	}

	if store.globalAdvances != 0 {
		t.Errorf("cycle advanced %d times before exhaustion", store.globalAdvances)
	}
}

func TestGlobalWord_CycleRollover(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil), word(2, "bravo", nil))
	svc := newTestService(store)

	for _, date := range []string{"2024-03-01", "2024-03-02"} {
		if _, err := svc.GetOrAssignGlobalWord(ctx, date); err != nil {
			t.Fatalf("date %s: %v", date, err)
		}
	}

	res, err := svc.GetOrAssignGlobalWord(ctx, "2024-03-03")
	if err != nil {
		t.Fatalf("post-exhaustion date: %v", err)
	}
	if store.globalCycle != 2 {
		t.Errorf("cycle = %d, want 2 after rollover", store.globalCycle)
	}
	if res.WordID != 1 && res.WordID != 2 {
		t.Errorf("rollover served unknown word %d", res.WordID)
	}
	if !res.WasNewlyCreated {
		t.Error("rollover assignment should be fresh")
	}
}

func TestGlobalWord_PoolEmpty(t *testing.T) {
	ctx := context.Background()
	disabled := word(1, "alpha", nil)
	disabled.Enabled = false
	failed := word(2, "bravo", nil)
	failed.EnrichmentStatus = domain.EnrichmentFailed

	svc := newTestService(newFakeStore(disabled, failed))

	if _, err := svc.GetOrAssignGlobalWord(ctx, "2024-03-01"); !errors.Is(err, domain.ErrPoolEmpty) {
		t.Errorf("err = %v, want ErrPoolEmpty", err)
	}
}

func TestGlobalWord_SkipsIneligibleEntries(t *testing.T) {
	ctx := context.Background()
	notSelectable := word(1, "alpha", nil)
	notSelectable.EnrichmentStatus = domain.EnrichmentNotFound

	store := newFakeStore(notSelectable, word(2, "bravo", nil))
	svc := newTestService(store)

	res, err := svc.GetOrAssignGlobalWord(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WordID != 2 {
		t.Errorf("served ineligible word %d", res.WordID)
	}
}

func TestGlobalWord_InvalidDate(t *testing.T) {
	svc := newTestService(newFakeStore(word(1, "alpha", nil)))

	for _, bad := range []string{"", "03-01-2024", "2024-13-45", "yesterday"} {
		if _, err := svc.GetOrAssignGlobalWord(context.Background(), bad); !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("date %q: err = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestGlobalWord_LostInsertRace(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil), word(2, "bravo", nil))
	svc := newTestService(store)

	const date = "2024-03-01"

	// A concurrent writer lands its row between our pick and our insert.
	store.beforeDailyCreate = func() {
		store.daily[date] = domain.DailyWordAssignment{WordForDate: date, WordID: 2}
		store.globalUsage["2|1"] = true
	}

	res, err := svc.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WordID != 2 {
		t.Errorf("WordID = %d, want the winner's word 2", res.WordID)
	}
	if res.WasNewlyCreated {
		t.Error("losing the race must not report a fresh assignment")
	}
}

func TestGlobalWord_UsageClaimedByAnotherDate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil))
	svc := newTestService(store)

	// A selection for a different date claims the sole word's per-cycle
	// usage row between our pick and our insert. Our assignment must not
	// land, or the word would be served twice within one cycle.
	store.beforeDailyCreate = func() {
		store.globalUsage["1|1"] = true
	}

	if _, err := svc.GetOrAssignGlobalWord(ctx, "2024-03-01"); !errors.Is(err, domain.ErrSelectionInvariant) {
		t.Fatalf("err = %v, want ErrSelectionInvariant", err)
	}
	if len(store.daily) != 0 {
		t.Errorf("lost usage race still wrote %d assignment(s)", len(store.daily))
	}
}

func TestGlobalWord_InvariantBreachAfterRollover(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil))
	store.pickAlwaysMiss = true
	svc := newTestService(store)

	if _, err := svc.GetOrAssignGlobalWord(ctx, "2024-03-01"); !errors.Is(err, domain.ErrSelectionInvariant) {
		t.Errorf("err = %v, want ErrSelectionInvariant", err)
	}
	if store.globalAdvances != 1 {
		t.Errorf("cycle advanced %d times, want exactly 1", store.globalAdvances)
	}
}

func TestGlobalWord_FiftyDaysHundredWords(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	for id := uint64(1); id <= 100; id++ {
		store.words[id] = word(id, fmt.Sprintf("word%03d", id), nil)
	}
	svc := newTestService(store)

	seen := make(map[uint64]bool)
	for day := 1; day <= 50; day++ {
		date := fmt.Sprintf("2024-%02d-%02d", (day-1)/28+1, (day-1)%28+1)
		res, err := svc.GetOrAssignGlobalWord(ctx, date)
		if err != nil {
			t.Fatalf("date %s: %v", date, err)
		}
		if seen[res.WordID] {
			t.Errorf("date %s repeated word %d", date, res.WordID)
		}
		seen[res.WordID] = true
	}

	if len(seen) != 50 {
		t.Errorf("served %d distinct words, want 50", len(seen))
	}
	if store.globalCycle != 1 {
		t.Errorf("cycle = %d, want 1 while the pool outlasts the dates", store.globalCycle)
	}
}

func TestGlobalWord_StableAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil), word(2, "bravo", nil), word(3, "charlie", nil))

	first, err := newTestService(store).GetOrAssignGlobalWord(ctx, "2024-02-03")
	if err != nil {
		t.Fatalf("first process: %v", err)
	}

	// A fresh service over the same storage state stands in for a restart.
	second, err := newTestService(store).GetOrAssignGlobalWord(ctx, "2024-02-03")
	if err != nil {
		t.Fatalf("second process: %v", err)
	}

	if second.WordID != first.WordID {
		t.Errorf("restart changed the word: %d then %d", first.WordID, second.WordID)
	}
	if second.WasNewlyCreated {
		t.Error("restart must read the persisted assignment, not recreate it")
	}
}

// ---- Per-user word ----

func TestUserWord_NoPreferenceMirrorsGlobal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "alpha", nil), word(2, "bravo", nil))
	svc := newTestService(store)

	const date = "2024-04-01"

	global, err := svc.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		t.Fatalf("global: %v", err)
	}

	res, err := svc.GetOrAssignUserWord(ctx, 42, date, nil)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if res.WordID != global.WordID {
		t.Errorf("user word %d, want the shared word %d", res.WordID, global.WordID)
	}
	if res.RequestedDifficulty != nil || res.EffectiveDifficulty != nil {
		t.Error("unpersonalized assignment must carry no difficulty bands")
	}
	if res.UsedFallback {
		t.Error("unpersonalized assignment cannot use fallback")
	}

	again, err := svc.GetOrAssignUserWord(ctx, 42, date, nil)
	if err != nil {
		t.Fatalf("repeat call: %v", err)
	}
	if again.WasNewlyCreated || again.WordID != res.WordID {
		t.Errorf("repeat call: got (%d, fresh=%t), want (%d, fresh=false)", again.WordID, again.WasNewlyCreated, res.WordID)
	}
}

func TestUserWord_PersonalizedUsesSeedKey(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(
		word(1, "nuance", tierPtr(40)),
		word(2, "subtle", tierPtr(55)),
		word(3, "plain", tierPtr(45)),
	)
	svc := newTestService(store)

	const (
		date   = "2024-02-03"
		userID = uint(42)
	)
	requested := domain.DifficultyBalanced

	res, err := svc.GetOrAssignUserWord(ctx, userID, date, &requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := Seed(fmt.Sprintf("%s:%d:%s", date, userID, requested))
	var wantID uint64
	wantKey := int64(math.MaxInt64)
	for id := uint64(1); id <= 3; id++ {
		if k := shuffleKey(id, seed); k < wantKey {
			wantKey, wantID = k, id
		}
	}

	if res.WordID != wantID {
		t.Errorf("WordID = %d, want %d for seed key %q", res.WordID, wantID, fmt.Sprintf("%s:%d:%s", date, userID, requested))
	}
	if res.EffectiveDifficulty == nil || *res.EffectiveDifficulty != domain.DifficultyBalanced {
		t.Errorf("effective = %v, want balanced", res.EffectiveDifficulty)
	}
	if res.UsedFallback {
		t.Error("in-band selection must not report fallback")
	}
}

func TestUserWord_DivergesBetweenUsers(t *testing.T) {
	ctx := context.Background()

	// Find two users whose seeds order the pool differently, then check the
	// service serves each the word its own seed dictates.
	const date = "2024-02-03"
	requested := domain.DifficultyBalanced
	ids := []uint64{1, 2, 3, 4}

	expected := func(userID uint) uint64 {
		seed := Seed(fmt.Sprintf("%s:%d:%s", date, userID, requested))
		var wantID uint64
		wantKey := int64(math.MaxInt64)
		for _, id := range ids {
			if k := shuffleKey(id, seed); k < wantKey {
				wantKey, wantID = k, id
			}
		}
		return wantID
	}

	userA, userB := uint(1), uint(0)
	for cand := uint(2); cand < 200; cand++ {
		if expected(cand) != expected(userA) {
			userB = cand
			break
		}
	}
	if userB == 0 {
		t.Fatal("no diverging user pair found; pool or seed is degenerate")
	}

	store := newFakeStore(
		word(1, "nuance", tierPtr(40)),
		word(2, "subtle", tierPtr(55)),
		word(3, "plain", tierPtr(45)),
		word(4, "steady", tierPtr(50)),
	)
	svc := newTestService(store)

	resA, err := svc.GetOrAssignUserWord(ctx, userA, date, &requested)
	if err != nil {
		t.Fatalf("user %d: %v", userA, err)
	}
	resB, err := svc.GetOrAssignUserWord(ctx, userB, date, &requested)
	if err != nil {
		t.Fatalf("user %d: %v", userB, err)
	}

	if resA.WordID != expected(userA) || resB.WordID != expected(userB) {
		t.Errorf("got (%d, %d), want (%d, %d)", resA.WordID, resB.WordID, expected(userA), expected(userB))
	}
	if resA.WordID == resB.WordID {
		t.Error("diverging seeds produced the same word")
	}
}

func TestUserWord_FallsBackWithinChain(t *testing.T) {
	ctx := context.Background()
	// Only balanced words exist, the user asks for easy.
	store := newFakeStore(word(1, "nuance", tierPtr(40)), word(2, "subtle", tierPtr(55)))
	svc := newTestService(store)

	requested := domain.DifficultyEasy
	res, err := svc.GetOrAssignUserWord(ctx, 7, "2024-04-01", &requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.EffectiveDifficulty == nil || *res.EffectiveDifficulty != domain.DifficultyBalanced {
		t.Errorf("effective = %v, want balanced", res.EffectiveDifficulty)
	}
	if res.RequestedDifficulty == nil || *res.RequestedDifficulty != domain.DifficultyEasy {
		t.Errorf("requested = %v, want easy", res.RequestedDifficulty)
	}
	if !res.UsedFallback {
		t.Error("cross-band selection must report fallback")
	}
}

func TestUserWord_ExhaustedBandRollsItsCycle(t *testing.T) {
	ctx := context.Background()
	// A single easy word and nothing else in the chain.
	store := newFakeStore(word(1, "cat", tierPtr(10)))
	svc := newTestService(store)

	requested := domain.DifficultyEasy
	const userID = uint(7)

	first, err := svc.GetOrAssignUserWord(ctx, userID, "2024-04-01", &requested)
	if err != nil {
		t.Fatalf("day one: %v", err)
	}

	second, err := svc.GetOrAssignUserWord(ctx, userID, "2024-04-02", &requested)
	if err != nil {
		t.Fatalf("day two: %v", err)
	}

	if first.WordID != 1 || second.WordID != 1 {
		t.Errorf("got words (%d, %d), want the sole word 1 twice", first.WordID, second.WordID)
	}
	if got := store.userCurrentCycle(userID, domain.DifficultyEasy); got != 2 {
		t.Errorf("easy cycle = %d, want 2 after exhaustion", got)
	}
	if second.UsedFallback {
		t.Error("same-band rollover must not report fallback")
	}
}

func TestUserWord_NoWordsForPreferences(t *testing.T) {
	ctx := context.Background()
	// Advanced chain is [advanced, balanced]; the pool is easy-only.
	store := newFakeStore(word(1, "cat", tierPtr(10)), word(2, "dog", tierPtr(20)))
	svc := newTestService(store)

	requested := domain.DifficultyAdvanced
	const userID = uint(9)

	if _, err := svc.GetOrAssignUserWord(ctx, userID, "2024-04-01", &requested); !errors.Is(err, domain.ErrNoWordsForPreferences) {
		t.Fatalf("err = %v, want ErrNoWordsForPreferences", err)
	}

	if got := store.userAdvances[store.userCycleKey(userID, domain.DifficultyAdvanced)]; got != 1 {
		t.Errorf("advanced band advanced %d times, want 1", got)
	}
	if got := store.userAdvances[store.userCycleKey(userID, domain.DifficultyBalanced)]; got != 1 {
		t.Errorf("balanced band advanced %d times, want 1", got)
	}
}

func TestUserWord_UsageClaimedByAnotherDate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(word(1, "nuance", tierPtr(40)))
	svc := newTestService(store)

	requested := domain.DifficultyBalanced
	const userID = uint(7)

	// Same race as the global case, on the per-(user, band) usage index.
	store.beforeUserCreate = func() {
		store.userUsage[fmt.Sprintf("%d|1|%s|1", userID, domain.DifficultyBalanced)] = true
	}

	if _, err := svc.GetOrAssignUserWord(ctx, userID, "2024-03-01", &requested); !errors.Is(err, domain.ErrSelectionInvariant) {
		t.Fatalf("err = %v, want ErrSelectionInvariant", err)
	}
	if len(store.userDaily) != 0 {
		t.Errorf("lost usage race still wrote %d assignment(s)", len(store.userDaily))
	}
}

func TestUserWord_NoRepeatWithinBandCycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(
		word(1, "nuance", tierPtr(40)),
		word(2, "subtle", tierPtr(55)),
		word(3, "steady", tierPtr(50)),
	)
	svc := newTestService(store)

	requested := domain.DifficultyBalanced
	const userID = uint(11)

	seen := make(map[uint64]string)
	for _, date := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		res, err := svc.GetOrAssignUserWord(ctx, userID, date, &requested)
		if err != nil {
			t.Fatalf("date %s: %v", date, err)
		}
		if prev, dup := seen[res.WordID]; dup {
			t.Errorf("word %d served on both %s and %s within one band cycle", res.WordID, prev, date)
		}
		seen[res.WordID] = date
	}
}
