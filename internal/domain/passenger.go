package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Passenger holds the details captured at booking time.
type Passenger struct {
	Name     string `json:"name"`
	IDNumber string `json:"id_number"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

var (
	idNumberPattern = regexp.MustCompile(`^[0-9]{8}$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{10}$`)
)

// Validate checks all passenger fields: non-empty name, exactly 8 digit
// national ID, exactly 10 digit phone, syntactically valid email. Failures
// wrap ErrInvalidPassengerDetails.
func (p Passenger) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidPassengerDetails)
	}
	if !idNumberPattern.MatchString(p.IDNumber) {
		return fmt.Errorf("id number must be exactly 8 digits: %w", ErrInvalidPassengerDetails)
	}
	if !phonePattern.MatchString(p.Phone) {
		return fmt.Errorf("phone must be exactly 10 digits: %w", ErrInvalidPassengerDetails)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("email %q is not valid: %w", p.Email, ErrInvalidPassengerDetails)
	}
	return nil
}
