package storage

import (
	"errors"
	"io"
)

// Composite serves users from one backend and refresh tokens from another,
// e.g. SQL users with refresh records kept in Redis.
type Composite struct {
	UserStorage
	TokenStorage
	closers []io.Closer
}

// NewComposite combines users and tokens; Close closes every closer in order
func NewComposite(users UserStorage, tokens TokenStorage, closers ...io.Closer) *Composite {
	return &Composite{
		UserStorage:  users,
		TokenStorage: tokens,
		closers:      closers,
	}
}

// Close closes all underlying backends and joins their errors
func (c *Composite) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
