package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateRequest(ctx context.Context, req *models.RationRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return faults.Dependency("create ration request", err)
	}
	return nil
}

func (s *Store) RequestByID(ctx context.Context, id uint) (models.RationRequest, error) {
	var request models.RationRequest
	if err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Item").Preload("RequestedBy").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RationRequest{}, faults.NotFound("ration request", fmt.Sprint(id))
		}
		return models.RationRequest{}, faults.Dependency("load ration request", err)
	}
	return request, nil
}

func (s *Store) RequestsByStatus(ctx context.Context, status string) ([]models.RationRequest, error) {
	var requests []models.RationRequest
	if err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Item").Preload("RequestedBy").
		Where("status = ?", status).
		Order("created_at asc").
		Find(&requests).Error; err != nil {
		return nil, faults.Dependency("list ration requests", err)
	}
	return requests, nil
}

func (s *Store) RequestsByChief(ctx context.Context, chiefID uint) ([]models.RationRequest, error) {
	var requests []models.RationRequest
	if err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Item").
		Where("requested_by_id = ?", chiefID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, faults.Dependency("list ration requests", err)
	}
	return requests, nil
}

// ApproveRequest flips the request to Approved and deducts every line
// in one transaction. The status update is conditional on Pending, so a
// racing approval of the same request leaves exactly one winner.
func (s *Store) ApproveRequest(ctx context.Context, id uint, movements []models.RationTransaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RationRequest{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Update("status", models.RequestApproved)
		if res.Error != nil {
			return faults.Dependency("approve ration request", res.Error)
		}
		if res.RowsAffected == 0 {
			return faults.NotFound("pending ration request", fmt.Sprint(id))
		}
		return applyMovementsTx(tx, movements)
	})
}

func (s *Store) RejectRequest(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.RationRequest{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Update("status", models.RequestRejected)
	if res.Error != nil {
		return faults.Dependency("reject ration request", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.NotFound("pending ration request", fmt.Sprint(id))
	}
	return nil
}
