package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateCycle(ctx context.Context, cycle *models.KitCycle) error {
	if err := s.db.WithContext(ctx).Create(cycle).Error; err != nil {
		return faults.Dependency("create kit cycle", err)
	}
	return nil
}

func (s *Store) CycleByID(ctx context.Context, id uint) (models.KitCycle, error) {
	var cycle models.KitCycle
	if err := s.db.WithContext(ctx).First(&cycle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.KitCycle{}, faults.NotFound("kit cycle", fmt.Sprint(id))
		}
		return models.KitCycle{}, faults.Dependency("load kit cycle", err)
	}
	return cycle, nil
}

func (s *Store) ListCycles(ctx context.Context) ([]models.KitCycle, error) {
	var cycles []models.KitCycle
	if err := s.db.WithContext(ctx).
		Order("start_date desc").
		Find(&cycles).Error; err != nil {
		return nil, faults.Dependency("list kit cycles", err)
	}
	return cycles, nil
}

func (s *Store) SetCycleActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.KitCycle{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return faults.Dependency("update kit cycle", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.NotFound("kit cycle", fmt.Sprint(id))
	}
	return nil
}

func (s *Store) CreateCollection(ctx context.Context, collection *models.KitCollection) error {
	if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
		if isDuplicate(err) {
			return faults.Conflict("kit collection", "token")
		}
		return faults.Dependency("create kit collection", err)
	}
	return nil
}

func (s *Store) CollectionsByCycle(ctx context.Context, cycleID uint) ([]models.KitCollection, error) {
	var collections []models.KitCollection
	if err := s.db.WithContext(ctx).
		Preload("Student").
		Where("cycle_id = ?", cycleID).
		Find(&collections).Error; err != nil {
		return nil, faults.Dependency("list kit collections", err)
	}
	return collections, nil
}

// RedeemCollection performs the one-way Pending to Collected transition
// with a conditional update: under concurrent redemptions of the same
// token exactly one caller sees rows affected, the rest observe the
// already-collected row.
func (s *Store) RedeemCollection(ctx context.Context, token string, at time.Time) (models.KitCollection, error) {
	res := s.db.WithContext(ctx).Model(&models.KitCollection{}).
		Where("qr_token = ? AND status = ?", token, models.CollectionPending).
		Updates(map[string]interface{}{
			"status":       models.CollectionCollected,
			"collected_at": at,
		})
	if res.Error != nil {
		return models.KitCollection{}, faults.Dependency("redeem token", res.Error)
	}

	var collection models.KitCollection
	err := s.db.WithContext(ctx).
		Preload("Student").Preload("Cycle").
		Where("qr_token = ?", token).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.KitCollection{}, faults.NotFound("collection token", token)
		}
		return models.KitCollection{}, faults.Dependency("load kit collection", err)
	}

	if res.RowsAffected == 0 {
		if collection.Status == models.CollectionCollected {
			collector := ""
			if collection.Student != nil {
				collector = collection.Student.Name
			}
			collectedAt := at
			if collection.CollectedAt != nil {
				collectedAt = *collection.CollectedAt
			}
			return models.KitCollection{}, &faults.AlreadyRedeemedError{
				CollectedBy: collector,
				CollectedAt: collectedAt,
			}
		}
		// Not Collected: the cycle is closed and the token is no longer
		// eligible for redemption.
		return models.KitCollection{}, faults.NotFound("redeemable collection token", token)
	}
	return collection, nil
}

func (s *Store) BulkSetCollectionStatus(ctx context.Context, cycleID uint, from, to string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.KitCollection{}).
		Where("cycle_id = ? AND status = ?", cycleID, from).
		Update("status", to)
	if res.Error != nil {
		return 0, faults.Dependency("update kit collections", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) CollectionsByStudentInActiveCycles(ctx context.Context, studentID uint) ([]models.KitCollection, error) {
	var collections []models.KitCollection
	if err := s.db.WithContext(ctx).
		Preload("Cycle").
		Joins("JOIN kit_cycles ON kit_cycles.id = kit_collections.cycle_id AND kit_cycles.is_active = ?", true).
		Where("kit_collections.student_id = ?", studentID).
		Order("kit_cycles.start_date asc").
		Find(&collections).Error; err != nil {
		return nil, faults.Dependency("list student kit collections", err)
	}
	return collections, nil
}
