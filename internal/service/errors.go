package service

import (
	"errors"

	"kindred/internal/models"
	"kindred/internal/store"
)

// wrapStoreErr maps entity store failures onto the caller-facing error
// taxonomy. Application errors (not-found, validation, permission) pass
// through untouched; an exhausted conflict budget or a transport failure
// becomes OPERATION_FAILED with the entity guaranteed unchanged.
func wrapStoreErr(action string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, store.ErrConflict) {
		return models.NewOperationFailedError(action+" did not commit", err)
	}
	return models.NewOperationFailedError(action+" failed", err)
}
