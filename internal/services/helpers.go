package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MapRepoError logs a storage fault and wraps it with ErrInternal. Callers
// handle storage.ErrNotFound themselves before reaching it.
func MapRepoError(log logrus.FieldLogger, err error, operation string) error {
	log.WithError(err).Errorf("ItemService: error %s", operation)
	return fmt.Errorf("%w %s: %w", ErrInternal, operation, err)
}
