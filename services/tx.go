package services

import (
	"context"

	"volleyball-scoretracker/repositories"
)

// runInTx runs fn in one store transaction. Errors returned by fn come back
// as is; a failure to begin or commit is reported as infrastructure.
func runInTx(ctx context.Context, store repositories.Store, fn func(tx repositories.Tx) error) error {
	var fnErr error
	err := store.Transaction(ctx, func(tx repositories.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return infra(err)
	}
	return err
}
