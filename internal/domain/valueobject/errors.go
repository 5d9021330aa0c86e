package valueobject

import (
	"errors"
	"fmt"
)

// Validation sentinels. Typed errors below match them through errors.Is.
var (
	ErrInvalidTerms   = errors.New("invalid loan terms")
	ErrInvalidFactors = errors.New("invalid risk factors")
)

// InvalidTermsError reports malformed loan terms.
type InvalidTermsError struct {
	Field  string
	Reason string
}

func (e *InvalidTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms: %s %s", e.Field, e.Reason)
}

func (e *InvalidTermsError) Is(target error) bool { return target == ErrInvalidTerms }

// InvalidFactorsError reports malformed risk scoring inputs.
type InvalidFactorsError struct {
	Field  string
	Reason string
}

func (e *InvalidFactorsError) Error() string {
	return fmt.Sprintf("invalid risk factors: %s %s", e.Field, e.Reason)
}

func (e *InvalidFactorsError) Is(target error) bool { return target == ErrInvalidFactors }
