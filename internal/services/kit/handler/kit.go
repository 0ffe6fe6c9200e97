package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
	"hostel-system/internal/notify"
)

// tokenAttempts bounds the retry loop when a freshly generated token
// collides with an existing one. With uuid v4 tokens a single retry is
// already astronomically unlikely.
const tokenAttempts = 3

// Store is the persistence surface of the kit distribution cycle.
// RedeemCollection transitions Pending to Collected only if the row is
// still Pending, so concurrent redemptions of one token produce exactly
// one winner.
type Store interface {
	CreateCycle(ctx context.Context, cycle *models.KitCycle) error
	CycleByID(ctx context.Context, id uint) (models.KitCycle, error)
	ListCycles(ctx context.Context) ([]models.KitCycle, error)
	SetCycleActive(ctx context.Context, id uint, active bool) error
	CreateCollection(ctx context.Context, collection *models.KitCollection) error
	CollectionsByCycle(ctx context.Context, cycleID uint) ([]models.KitCollection, error)
	RedeemCollection(ctx context.Context, token string, at time.Time) (models.KitCollection, error)
	BulkSetCollectionStatus(ctx context.Context, cycleID uint, from, to string) (int64, error)
	CollectionsByStudentInActiveCycles(ctx context.Context, studentID uint) ([]models.KitCollection, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	StudentBySSPID(ctx context.Context, sspID string) (models.Student, error)
}

type KitHandler struct {
	store  Store
	sender notify.Sender
}

func NewKitHandler(store Store, sender notify.Sender) *KitHandler {
	return &KitHandler{
		store:  store,
		sender: sender,
	}
}

func newToken() string {
	return uuid.NewString()
}

type CreateCycleRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Contents  string    `json:"contents"`
}

type CreateCycleResult struct {
	Cycle       models.KitCycle `json:"cycle"`
	Provisioned int             `json:"provisioned"`
	Failed      []string        `json:"failed,omitempty"`
}

// CreateCycle persists the cycle and then fans out one Pending
// collection with a fresh token per current student. Fan-out failures
// are collected per student, not swallowed.
func (s *KitHandler) CreateCycle(ctx context.Context, req CreateCycleRequest) (CreateCycleResult, error) {
	if req.Name == "" || req.Contents == "" {
		return CreateCycleResult{}, faults.Validation("name and contents are required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return CreateCycleResult{}, faults.Validation("a valid start and end date are required")
	}

	cycle := models.KitCycle{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Contents:  req.Contents,
		IsActive:  true,
	}
	if err := s.store.CreateCycle(ctx, &cycle); err != nil {
		return CreateCycleResult{}, err
	}

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return CreateCycleResult{}, err
	}

	result := CreateCycleResult{Cycle: cycle}
	for _, student := range students {
		if err := s.provisionCollection(ctx, cycle.ID, student.ID); err != nil {
			result.Failed = append(result.Failed, student.SSPID)
			log.Printf("kit collection fan-out failed for student %s: %v", student.SSPID, err)
			continue
		}
		result.Provisioned++
	}
	return result, nil
}

func (s *KitHandler) provisionCollection(ctx context.Context, cycleID, studentID uint) error {
	var err error
	for i := 0; i < tokenAttempts; i++ {
		collection := models.KitCollection{
			CycleID:   cycleID,
			StudentID: studentID,
			Status:    models.CollectionPending,
			QRToken:   newToken(),
		}
		err = s.store.CreateCollection(ctx, &collection)
		var conflict *faults.ConflictError
		if err == nil || !errors.As(err, &conflict) {
			return err
		}
	}
	return err
}

func (s *KitHandler) ListCycles(ctx context.Context) ([]models.KitCycle, error) {
	return s.store.ListCycles(ctx)
}

type CycleReport struct {
	Cycle        models.KitCycle        `json:"cycle"`
	Pending      int                    `json:"pending"`
	Collected    int                    `json:"collected"`
	NotCollected int                    `json:"notCollected"`
	Collections  []models.KitCollection `json:"collections"`
}

func (s *KitHandler) GetCycleReport(ctx context.Context, cycleID uint) (CycleReport, error) {
	cycle, err := s.store.CycleByID(ctx, cycleID)
	if err != nil {
		return CycleReport{}, err
	}

	collections, err := s.store.CollectionsByCycle(ctx, cycleID)
	if err != nil {
		return CycleReport{}, err
	}

	report := CycleReport{Cycle: cycle, Collections: collections}
	for _, c := range collections {
		switch c.Status {
		case models.CollectionPending:
			report.Pending++
		case models.CollectionCollected:
			report.Collected++
		case models.CollectionNotCollected:
			report.NotCollected++
		}
	}
	return report, nil
}

// RedeemToken marks the collection Collected exactly once. A second
// attempt observes AlreadyRedeemedError carrying the original collector
// and timestamp.
func (s *KitHandler) RedeemToken(ctx context.Context, token string) (models.KitCollection, error) {
	if token == "" {
		return models.KitCollection{}, faults.Validation("token is required")
	}
	return s.store.RedeemCollection(ctx, token, time.Now())
}

// CloseCycle deactivates the cycle and moves every still-Pending
// collection to Not Collected. Closing an already closed cycle is a
// no-op.
func (s *KitHandler) CloseCycle(ctx context.Context, cycleID uint) (int64, error) {
	if _, err := s.store.CycleByID(ctx, cycleID); err != nil {
		return 0, err
	}
	if err := s.store.SetCycleActive(ctx, cycleID, false); err != nil {
		return 0, err
	}
	return s.store.BulkSetCollectionStatus(ctx, cycleID, models.CollectionPending, models.CollectionNotCollected)
}

// ReopenCycle reactivates the cycle and restores Not Collected rows to
// Pending. Collected rows are never touched.
func (s *KitHandler) ReopenCycle(ctx context.Context, cycleID uint) (int64, error) {
	if _, err := s.store.CycleByID(ctx, cycleID); err != nil {
		return 0, err
	}
	if err := s.store.SetCycleActive(ctx, cycleID, true); err != nil {
		return 0, err
	}
	return s.store.BulkSetCollectionStatus(ctx, cycleID, models.CollectionNotCollected, models.CollectionPending)
}

type RemindResult struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// RemindPending sends an SMS to every student whose kit is still
// Pending in the cycle. Outcomes are reported per student.
func (s *KitHandler) RemindPending(ctx context.Context, cycleID uint) (RemindResult, error) {
	cycle, err := s.store.CycleByID(ctx, cycleID)
	if err != nil {
		return RemindResult{}, err
	}

	collections, err := s.store.CollectionsByCycle(ctx, cycleID)
	if err != nil {
		return RemindResult{}, err
	}

	var result RemindResult
	for _, c := range collections {
		if c.Status != models.CollectionPending || c.Student == nil {
			continue
		}
		if c.Student.Phone == "" {
			result.Failed = append(result.Failed, c.Student.SSPID)
			continue
		}
		body := fmt.Sprintf("Hi %s. Your %s kit is ready for collection until %s. Please collect it from the hostel office.",
			c.Student.Name, cycle.Name, cycle.EndDate.Format("02/01/2006"))
		if s.sender == nil {
			result.Failed = append(result.Failed, c.Student.SSPID)
			continue
		}
		if err := s.sender.Send(ctx, c.Student.Phone, body); err != nil {
			log.Printf("kit reminder SMS failed for student %s: %v", c.Student.SSPID, err)
			result.Failed = append(result.Failed, c.Student.SSPID)
			continue
		}
		result.Sent++
	}
	return result, nil
}

// GetStudentStatus returns the student's collections in active cycles,
// oldest cycle first.
func (s *KitHandler) GetStudentStatus(ctx context.Context, sspID string) ([]models.KitCollection, error) {
	student, err := s.store.StudentBySSPID(ctx, sspID)
	if err != nil {
		return nil, err
	}
	return s.store.CollectionsByStudentInActiveCycles(ctx, student.ID)
}
