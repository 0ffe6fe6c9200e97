// Package database implements the service-layer store interfaces on
// gorm/postgres. All stock and status transitions use conditional
// updates so concurrent writers cannot lose updates or drive stock
// negative.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// applyMovementsTx appends every transaction row and adjusts the
// matching item inside the supplied transaction. OUT movements use a
// conditional decrement: the WHERE clause keeps stock non-negative even
// under concurrent callers.
func applyMovementsTx(tx *gorm.DB, movements []models.RationTransaction) error {
	for i := range movements {
		mv := movements[i]
		mv.Item = nil

		switch mv.Type {
		case models.TransactionIn:
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ?", mv.ItemID).
				UpdateColumn("current_stock", gorm.Expr("current_stock + ?", mv.Quantity))
			if res.Error != nil {
				return faults.Dependency("increment stock", res.Error)
			}
			if res.RowsAffected == 0 {
				return faults.NotFound("inventory item", fmt.Sprint(mv.ItemID))
			}
		case models.TransactionOut:
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND current_stock >= ?", mv.ItemID, mv.Quantity).
				UpdateColumn("current_stock", gorm.Expr("current_stock - ?", mv.Quantity))
			if res.Error != nil {
				return faults.Dependency("decrement stock", res.Error)
			}
			if res.RowsAffected == 0 {
				var item models.InventoryItem
				if err := tx.First(&item, mv.ItemID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return faults.NotFound("inventory item", fmt.Sprint(mv.ItemID))
					}
					return faults.Dependency("load item", err)
				}
				return &faults.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.ItemName,
					Unit:      item.Unit,
					Available: item.CurrentStock,
					Requested: mv.Quantity,
				}
			}
		default:
			return faults.Validation("invalid transaction type %q", mv.Type)
		}

		if err := tx.Create(&mv).Error; err != nil {
			return faults.Dependency("record transaction", err)
		}
	}
	return nil
}

func (s *Store) ApplyMovements(ctx context.Context, movements []models.RationTransaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyMovementsTx(tx, movements)
	})
}
