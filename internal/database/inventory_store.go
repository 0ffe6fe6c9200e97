package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if isDuplicate(err) {
			return faults.Conflict("inventory item", "name")
		}
		return faults.Dependency("create item", err)
	}
	return nil
}

func (s *Store) ItemByID(ctx context.Context, id uint) (models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.InventoryItem{}, faults.NotFound("inventory item", fmt.Sprint(id))
		}
		return models.InventoryItem{}, faults.Dependency("load item", err)
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Order("category asc, item_name asc").
		Find(&items).Error; err != nil {
		return nil, faults.Dependency("list items", err)
	}
	return items, nil
}

func (s *Store) TransactionsByItem(ctx context.Context, itemID uint) ([]models.RationTransaction, error) {
	var transactions []models.RationTransaction
	if err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("transaction_date desc").
		Find(&transactions).Error; err != nil {
		return nil, faults.Dependency("load transactions", err)
	}
	return transactions, nil
}
