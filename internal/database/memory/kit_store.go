package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func (s *Store) CreateCycle(_ context.Context, cycle *models.KitCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cycleSeq++
	cycle.ID = s.cycleSeq
	cycle.CreatedAt = time.Now()
	cycle.UpdatedAt = cycle.CreatedAt
	s.cycles[cycle.ID] = *cycle
	return nil
}

func (s *Store) CycleByID(_ context.Context, id uint) (models.KitCycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.cycles[id]
	if !ok {
		return models.KitCycle{}, faults.NotFound("kit cycle", fmt.Sprint(id))
	}
	return cycle, nil
}

func (s *Store) ListCycles(_ context.Context) ([]models.KitCycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycles := make([]models.KitCycle, 0, len(s.cycles))
	for _, cycle := range s.cycles {
		cycles = append(cycles, cycle)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].StartDate.After(cycles[j].StartDate) })
	return cycles, nil
}

func (s *Store) SetCycleActive(_ context.Context, id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.cycles[id]
	if !ok {
		return faults.NotFound("kit cycle", fmt.Sprint(id))
	}
	cycle.IsActive = active
	cycle.UpdatedAt = time.Now()
	s.cycles[id] = cycle
	return nil
}

func (s *Store) CreateCollection(_ context.Context, collection *models.KitCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokenIndex[collection.QRToken]; exists {
		return faults.Conflict("kit collection", "token")
	}
	s.collectionSeq++
	collection.ID = s.collectionSeq
	s.collections[collection.ID] = *collection
	s.tokenIndex[collection.QRToken] = collection.ID
	return nil
}

func (s *Store) CollectionsByCycle(_ context.Context, cycleID uint) ([]models.KitCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.KitCollection
	for _, collection := range s.collections {
		if collection.CycleID == cycleID {
			out = append(out, s.populateCollectionLocked(collection))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RedeemCollection(_ context.Context, token string, at time.Time) (models.KitCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokenIndex[token]
	if !ok {
		return models.KitCollection{}, faults.NotFound("collection token", token)
	}
	collection := s.collections[id]

	switch collection.Status {
	case models.CollectionCollected:
		collector := ""
		if student, ok := s.students[collection.StudentID]; ok {
			collector = student.Name
		}
		collectedAt := at
		if collection.CollectedAt != nil {
			collectedAt = *collection.CollectedAt
		}
		return models.KitCollection{}, &faults.AlreadyRedeemedError{
			CollectedBy: collector,
			CollectedAt: collectedAt,
		}
	case models.CollectionNotCollected:
		return models.KitCollection{}, faults.NotFound("redeemable collection token", token)
	}

	collection.Status = models.CollectionCollected
	ts := at
	collection.CollectedAt = &ts
	s.collections[id] = collection
	return s.populateCollectionLocked(collection), nil
}

func (s *Store) BulkSetCollectionStatus(_ context.Context, cycleID uint, from, to string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for id, collection := range s.collections {
		if collection.CycleID == cycleID && collection.Status == from {
			collection.Status = to
			s.collections[id] = collection
			updated++
		}
	}
	return updated, nil
}

func (s *Store) CollectionsByStudentInActiveCycles(_ context.Context, studentID uint) ([]models.KitCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.KitCollection
	for _, collection := range s.collections {
		if collection.StudentID != studentID {
			continue
		}
		cycle, ok := s.cycles[collection.CycleID]
		if !ok || !cycle.IsActive {
			continue
		}
		out = append(out, s.populateCollectionLocked(collection))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cycle.StartDate.Before(out[j].Cycle.StartDate)
	})
	return out, nil
}

func (s *Store) populateCollectionLocked(collection models.KitCollection) models.KitCollection {
	out := collection
	if student, ok := s.students[collection.StudentID]; ok {
		student := student
		out.Student = &student
	}
	if cycle, ok := s.cycles[collection.CycleID]; ok {
		cycle := cycle
		out.Cycle = &cycle
	}
	return out
}
