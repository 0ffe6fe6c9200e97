package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateAdmin(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Email == admin.Email || existing.Phone == admin.Phone {
			return faults.Conflict("admin", "email or phone")
		}
	}
	s.adminSeq++
	admin.ID = s.adminSeq
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	s.admins[admin.ID] = *admin
	return nil
}

func (s *Store) AdminByEmail(_ context.Context, email string) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, faults.NotFound("admin", email)
}

func (s *Store) AdminByEmailAndPhone(_ context.Context, email, phone string) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin.Email == email && admin.Phone == phone {
			return admin, nil
		}
	}
	return models.Admin{}, faults.NotFound("admin", email)
}

func (s *Store) UpdateAdminPassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, admin := range s.admins {
		if admin.Email == email {
			admin.Password = passwordHash
			admin.UpdatedAt = time.Now()
			s.admins[id] = admin
			return nil
		}
	}
	return faults.NotFound("admin", email)
}

func (s *Store) CreateChief(_ context.Context, chief *models.KitchenChief) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.chiefs {
		if existing.LoginID == chief.LoginID {
			return faults.Conflict("kitchen chief", "login id")
		}
	}
	s.chiefSeq++
	chief.ID = s.chiefSeq
	chief.CreatedAt = time.Now()
	chief.UpdatedAt = chief.CreatedAt
	s.chiefs[chief.ID] = *chief
	return nil
}

func (s *Store) ChiefByLoginID(_ context.Context, loginID string) (models.KitchenChief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chief := range s.chiefs {
		if chief.LoginID == loginID {
			return chief, nil
		}
	}
	return models.KitchenChief{}, faults.NotFound("kitchen chief", loginID)
}

func (s *Store) ChiefByID(_ context.Context, id uint) (models.KitchenChief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chief, ok := s.chiefs[id]
	if !ok {
		return models.KitchenChief{}, faults.NotFound("kitchen chief", fmt.Sprint(id))
	}
	return chief, nil
}

func (s *Store) CreateStudent(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if existing.SSPID == student.SSPID {
			return faults.Conflict("student", "ssp id")
		}
	}
	s.studentSeq++
	student.ID = s.studentSeq
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	s.students[student.ID] = *student
	return nil
}

func (s *Store) ListStudents(_ context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].SSPID < students[j].SSPID })
	return students, nil
}

func (s *Store) StudentBySSPID(_ context.Context, sspID string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, student := range s.students {
		if student.SSPID == sspID {
			return student, nil
		}
	}
	return models.Student{}, faults.NotFound("student", sspID)
}
