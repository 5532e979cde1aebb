package utils

import (
	"errors"
	"strconv"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation errors
var (
	ErrPhoneNumberLength   = errors.New("Phonenumber is not 10 digits long")
	ErrPhoneNumberPrefix   = errors.New("Phonenumber should start with 6, 7, 8, 9")
	ErrPasswordTooShort    = errors.New("Password should have at least 8 characters")
	ErrPasswordNoDigit     = errors.New("Password should contain a number")
	ErrPasswordNoUppercase = errors.New("Password should contain a capitalized letter")
)

// PhoneNumberRule accepts exactly ten digits starting with 6, 7, 8 or 9. It
// works on any integer kind, so typed phone numbers validate too.
var PhoneNumberRule = validation.By(func(value interface{}) error {
	phoneNumber, err := validation.ToInt(value)
	if err != nil {
		return err
	}
	digits := strconv.FormatInt(phoneNumber, 10)
	if len(digits) != 10 {
		return ErrPhoneNumberLength
	}
	switch digits[0] {
	case '6', '7', '8', '9':
		return nil
	}
	return ErrPhoneNumberPrefix
})

// PasswordRule checks length, then a digit, then an uppercase letter, and
// reports the first rule that fails.
var PasswordRule = validation.By(func(value interface{}) error {
	password, err := validation.EnsureString(value)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasUpper {
		return ErrPasswordNoUppercase
	}
	return nil
})

func ValidatePhoneNumber(phoneNumber int64) error {
	return validation.Validate(phoneNumber, PhoneNumberRule)
}

func ValidatePassword(password string) error {
	return validation.Validate(password, PasswordRule)
}
