package keypager

import "fmt"

const (
	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 10
)

// ValidateLimit rejects limits outside [MinLimit, MaxLimit]. Out of range
// limits are never clamped.
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: %d is out of range [%d, %d]", ErrInvalidLimit, limit, MinLimit, MaxLimit)
	}

	return nil
}
