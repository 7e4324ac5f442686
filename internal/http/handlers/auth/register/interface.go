package register

import (
	"context"

	registration "github.com/aceresearch/registration-portal/internal/services/registration"
)

type Service interface {
	Register(ctx context.Context, in registration.Input) (*registration.Result, error)
}
