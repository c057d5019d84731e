package chitfund

import "fmt"

// InvalidInputError reports arguments that fall outside the payout model.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input"
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is enables errors.Is matching on InvalidInputError.
func (e InvalidInputError) Is(target error) bool {
	_, ok := target.(InvalidInputError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidInputError)
	return ok
}

// ErrInvalidInput is the sentinel error for rejected arguments.
var ErrInvalidInput = InvalidInputError{}

func NewInvalidInput(field, format string, args ...any) error {
	return InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
