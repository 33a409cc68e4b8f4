// Package store is the data-access layer. Every operation takes a context and
// returns errors categorized by the errs package.
package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/validation"
)

// Store mediates all reads and writes of clinic records.
type Store struct {
	db    *gorm.DB
	log   *logrus.Entry
	hooks Hooks
}

// New returns a Store over an opened, migrated database. A nil logger
// discards output.
func New(db *gorm.DB, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{db: db, log: log.WithComponent("store")}
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// wrap turns a gorm error into an errs.Error for op.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errs.KindOf(err) != errs.KindUnknown:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict(op, err)
	}
	return errs.Database(op, err)
}

func invalid(op string, v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return errs.Validation(op, v.Map())
}

// notFoundIfNone reports a missing row when an update or delete touched
// nothing.
func notFoundIfNone(op string, res *gorm.DB) error {
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(op, gorm.ErrRecordNotFound)
	}
	return nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.Database("store.Ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Database("store.Ping", err)
	}
	return nil
}
