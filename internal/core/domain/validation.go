package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNoActiveFlow is returned when input arrives for a capture step the user
// is not currently in.
var ErrNoActiveFlow = errors.New("no active input flow")

// ValidationError reports a single invalid field of a multi-step capture.
// The flow stays active so the user can resubmit the step.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AsValidation unwraps err into a *ValidationError when possible.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var txHashRe = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidTxHash reports whether s is a well-formed transaction hash: exactly
// 64 hexadecimal characters.
func ValidTxHash(s string) bool {
	return txHashRe.MatchString(s)
}
