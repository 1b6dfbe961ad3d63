// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

// ValidateStringMinLength checks the UTF-8 character count, not the byte length.
func ValidateStringMinLength(s string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(s) < minLength {
		return fmt.Errorf("%w: %s must have at least %d characters", ErrValidationFailed, fieldName, minLength)
	}
	return nil
}
