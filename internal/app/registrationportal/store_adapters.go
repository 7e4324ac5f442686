package registrationportal

import (
	"context"

	admin "github.com/aceresearch/registration-portal/internal/services/admin"
	registration "github.com/aceresearch/registration-portal/internal/services/registration"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

// registrationStore narrows *repository.Storage to the unit of work the
// registration service needs. *repository.Queries already implements the
// transactional store, only the RunInTx signature has to be bridged.
type registrationStore struct {
	*repository.Storage
}

func (s registrationStore) RunInTx(ctx context.Context, fn func(tx registration.TxStore) error) error {
	return s.Storage.RunInTx(ctx, func(q *repository.Queries) error {
		return fn(q)
	})
}

// adminStore does the same for the admin service's delete transaction.
type adminStore struct {
	*repository.Storage
}

func (s adminStore) RunInTx(ctx context.Context, fn func(tx admin.TxStore) error) error {
	return s.Storage.RunInTx(ctx, func(q *repository.Queries) error {
		return fn(q)
	})
}
