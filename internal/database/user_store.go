package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isDuplicate(err) {
			return faults.Conflict("admin", "email or phone")
		}
		return faults.Dependency("create admin", err)
	}
	return nil
}

func (s *Store) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Admin{}, faults.NotFound("admin", email)
		}
		return models.Admin{}, faults.Dependency("load admin", err)
	}
	return admin, nil
}

func (s *Store) AdminByEmailAndPhone(ctx context.Context, email, phone string) (models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).
		Where("email = ? AND phone = ?", email, phone).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Admin{}, faults.NotFound("admin", email)
		}
		return models.Admin{}, faults.Dependency("load admin", err)
	}
	return admin, nil
}

func (s *Store) UpdateAdminPassword(ctx context.Context, email, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", email).
		Update("password", passwordHash)
	if res.Error != nil {
		return faults.Dependency("update admin password", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.NotFound("admin", email)
	}
	return nil
}

func (s *Store) CreateChief(ctx context.Context, chief *models.KitchenChief) error {
	if err := s.db.WithContext(ctx).Create(chief).Error; err != nil {
		if isDuplicate(err) {
			return faults.Conflict("kitchen chief", "login id")
		}
		return faults.Dependency("create kitchen chief", err)
	}
	return nil
}

func (s *Store) ChiefByLoginID(ctx context.Context, loginID string) (models.KitchenChief, error) {
	var chief models.KitchenChief
	if err := s.db.WithContext(ctx).Where("login_id = ?", loginID).First(&chief).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.KitchenChief{}, faults.NotFound("kitchen chief", loginID)
		}
		return models.KitchenChief{}, faults.Dependency("load kitchen chief", err)
	}
	return chief, nil
}

func (s *Store) ChiefByID(ctx context.Context, id uint) (models.KitchenChief, error) {
	var chief models.KitchenChief
	if err := s.db.WithContext(ctx).First(&chief, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.KitchenChief{}, faults.NotFound("kitchen chief", "")
		}
		return models.KitchenChief{}, faults.Dependency("load kitchen chief", err)
	}
	return chief, nil
}

func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		if isDuplicate(err) {
			return faults.Conflict("student", "ssp id")
		}
		return faults.Dependency("create student", err)
	}
	return nil
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("ssp_id asc").Find(&students).Error; err != nil {
		return nil, faults.Dependency("list students", err)
	}
	return students, nil
}

func (s *Store) StudentBySSPID(ctx context.Context, sspID string) (models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).Where("ssp_id = ?", sspID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, faults.NotFound("student", sspID)
		}
		return models.Student{}, faults.Dependency("load student", err)
	}
	return student, nil
}
