// Package input normalizes and validates user-entered fields shared by the
// application services.
package input

import (
	"errors"
	"net/mail"
	"unicode/utf8"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/domain"
)

// Name normalizes a human-entered name and enforces 1..255 characters.
func Name(field, raw string) (string, error) {
	name := domain.NormalizeHumanName(raw)
	if name == "" {
		return "", apperr.Validation(field, "must be non-empty")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return "", apperr.Validation(field, "must be at most 255 characters")
	}
	return name, nil
}

// Email normalizes an address; nil and blank mean "no email".
func Email(field string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	email := domain.NormalizeEmail(*raw)
	if email == "" {
		return nil, nil
	}
	if err := validateEmail(email); err != nil {
		return nil, apperr.Validation(field, err.Error())
	}
	return &email, nil
}

// Phone trims a phone number; nil and blank mean "no phone".
func Phone(field string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	phone := domain.NormalizeHumanName(*raw)
	if phone == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(phone) > domain.MaxPhoneLength {
		return nil, apperr.Validation(field, "must be at most 20 characters")
	}
	return &phone, nil
}

func validateEmail(email string) error {
	if utf8.RuneCountInString(email) > domain.MaxNameLength {
		return errors.New("must be at most 255 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("must be a valid email address")
	}
	return nil
}
