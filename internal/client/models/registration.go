package models

import (
	"errors"
	"strings"
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrMissingPassword = errors.New("password is required")
	ErrInvalidEmail    = errors.New("a valid email is required")
)

// Registration is the payload for creating a new account.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate checks the fields the server always requires.
func (r Registration) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, ErrMissingUsername)
	}
	if r.Password == "" {
		errs = append(errs, ErrMissingPassword)
	}
	if at := strings.Index(r.Email, "@"); at <= 0 || at == len(r.Email)-1 {
		errs = append(errs, ErrInvalidEmail)
	}
	return errors.Join(errs...)
}
