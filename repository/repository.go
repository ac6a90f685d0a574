// Package repository implements the service stores on top of GORM/Postgres.
package repository

import (
	"context"
	"errors"

	"autoshop-backend/services"

	"gorm.io/gorm"
)

// Compile-time checks that the repos satisfy the service stores.
var (
	_ services.DocumentStore  = (*DocumentRepo)(nil)
	_ services.CustomerStore  = (*CustomerRepo)(nil)
	_ services.CatalogStore   = (*CatalogRepo)(nil)
	_ services.UserStore      = (*UserRepo)(nil)
	_ services.DigestLogStore = (*DigestLogRepo)(nil)
	_ services.DigestSource   = (*DocumentRepo)(nil)
)

// withTx runs fn in a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// translate maps GORM sentinels onto the service errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

// requireAffected turns a delete or update that matched nothing into ErrNotFound.
func requireAffected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}
