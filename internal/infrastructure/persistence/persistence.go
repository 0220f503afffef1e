// Package persistence selects the store backend from configuration.
package persistence

import (
	"fmt"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/tx"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/gormdb"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/mongodb"
)

// Repositories bundles the store ports of one backend.
type Repositories struct {
	Books   book.Repository
	Reviews review.Repository
	Users   user.Repository
	Tx      tx.Manager
}

// NewRepositories connects to database.driver and builds its repositories.
// cleanup releases the connection.
func NewRepositories(cfg *config.Config) (*Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, cleanup, err := mongodb.NewDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &Repositories{
			Books:   mongodb.NewBookRepository(db),
			Reviews: mongodb.NewReviewRepository(db),
			Users:   mongodb.NewUserRepository(db),
			Tx:      tx.None,
		}, cleanup, nil

	case config.DriverMySQL, config.DriverSQLite:
		db, err := gormdb.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return &Repositories{
			Books:   gormdb.NewBookRepository(db),
			Reviews: gormdb.NewReviewRepository(db),
			Users:   gormdb.NewUserRepository(db),
			Tx:      gormdb.NewTxManager(db),
		}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
