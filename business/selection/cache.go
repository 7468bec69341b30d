package selection

import "context"

// WordCache memoizes the immutable date -> word mapping in front of the
// assignment store. Assignments never change once written, so there is no
// invalidation path.
type WordCache interface {
	GetWordID(ctx context.Context, date string) (uint64, bool, error)
	SetWordID(ctx context.Context, date string, wordID uint64) error
}

// NoopWordCache is the default implementation that caches nothing.
type NoopWordCache struct{}

func (NoopWordCache) GetWordID(ctx context.Context, date string) (uint64, bool, error) {
	return 0, false, nil
}

func (NoopWordCache) SetWordID(ctx context.Context, date string, wordID uint64) error {
	return nil
}
