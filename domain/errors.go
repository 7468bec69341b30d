package domain

import "errors"

// Selection error taxonomy. PoolEmpty and SelectionInvariant are operational
// failures that should never reach end users; NoWordsForPreferences is a
// legitimate user-visible outcome of an exhausted difficulty pool.
var (
	ErrPoolEmpty             = errors.New("word pool is empty")
	ErrSelectionInvariant    = errors.New("selection invariant violated")
	ErrNoWordsForPreferences = errors.New("no words available for selected preferences")
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDeliveryTime   = errors.New("invalid delivery time, expected HH:MM")
	ErrInvalidTimezone       = errors.New("invalid timezone")
	ErrWordNotFound          = errors.New("word not found")
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrUserNotFound          = errors.New("user not found")
)
