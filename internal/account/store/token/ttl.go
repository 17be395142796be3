package token

import (
	"errors"
	"time"
)

// ErrInvalidTTL rejects tokens that would never or already have expired.
var ErrInvalidTTL = errors.New("activation token ttl must be positive")

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return nil
}
