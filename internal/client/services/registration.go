package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
)

// ErrRegistrationRejected is returned when the server answers the signup
// with success=false, usually because the username is taken.
var ErrRegistrationRejected = errors.New("registration rejected")

// Registration creates accounts.
type Registration struct {
	client client.Client
}

func NewRegistration(c client.Client) *Registration {
	return &Registration{client: c}
}

// Register validates reg locally and submits it. Both validation failures
// and a rejected signup match client.ErrInvalidRequest.
func (r *Registration) Register(ctx context.Context, reg models.Registration) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", client.ErrInvalidRequest, err)
	}

	ok, err := r.client.Register(ctx, reg)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %w", client.ErrInvalidRequest, ErrRegistrationRejected)
	}
	return nil
}
