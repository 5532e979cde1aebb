package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FollowUpEntry is one row of the dentist's daily follow-up list.
type FollowUpEntry struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Age         int             `json:"age"`
	PhoneNumber int64           `json:"phonenumber"`
	Time        string          `json:"time"`
	FollowUp    models.FollowUp `json:"followup"`
}

type FollowUpService struct {
	complaints repositories.ComplaintRepository
	followUps  repositories.FollowUpRepository
	clock      *utils.Clock
	log        *logrus.Logger
}

func NewFollowUpService(complaints repositories.ComplaintRepository, followUps repositories.FollowUpRepository, clock *utils.Clock, log *logrus.Logger) *FollowUpService {
	return &FollowUpService{complaints: complaints, followUps: followUps, clock: clock, log: log}
}

// Today lists follow-ups scheduled for the current clinic date.
func (s *FollowUpService) Today(ctx context.Context) ([]FollowUpEntry, error) {
	followUps, err := s.followUps.ListByDate(ctx, s.clock.TodayDate())
	if err != nil {
		return nil, storeError(err, "Followup")
	}

	entries := make([]FollowUpEntry, 0, len(followUps))
	for _, f := range followUps {
		patient := f.Complaint.Credential
		entry := FollowUpEntry{
			ID:          f.ID,
			Name:        patient.Name,
			PhoneNumber: patient.PhoneNumber,
			Time:        f.Time,
			FollowUp:    f,
		}
		if patient.Details != nil {
			entry.Age = s.clock.Age(patient.Details.DateOfBirth)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *FollowUpService) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.FollowUp, error) {
	if _, err := findComplaint(ctx, s.complaints, complaintID); err != nil {
		return nil, err
	}
	followUps, err := s.followUps.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, storeError(err, "Followup")
	}
	return emptyIfNil(followUps), nil
}

func (s *FollowUpService) Create(ctx context.Context, req models.CreateFollowUpRequest) (*models.FollowUp, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := findComplaint(ctx, s.complaints, req.ComplaintID); err != nil {
		return nil, err
	}

	input := req.FollowUp
	exists, err := s.followUps.ExistsNumber(ctx, req.ComplaintID, input.Number)
	if err != nil {
		return nil, storeError(err, "Followup")
	}
	if exists {
		return nil, duplicateFollowUp(input.Number)
	}

	date, clock, err := parseSchedule(input.Date, input.Time)
	if err != nil {
		return nil, err
	}
	followUp := &models.FollowUp{
		ComplaintID: req.ComplaintID,
		Number:      input.Number,
		Title:       input.Title,
		Description: input.Description,
		Date:        date,
		Time:        clock,
		Completed:   input.Completed,
	}
	if err := s.followUps.Create(ctx, followUp); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, duplicateFollowUp(input.Number)
		}
		return nil, storeError(err, "Followup")
	}

	metrics.RecordCreated("followup")
	s.log.WithFields(logrus.Fields{"followup_id": followUp.ID, "complaint_id": followUp.ComplaintID}).Info("Followup created")
	return followUp, nil
}

// Update reschedules a follow-up or records its outcome. Completed is left
// unchanged when absent from the request.
func (s *FollowUpService) Update(ctx context.Context, req models.UpdateFollowUpRequest) (*models.FollowUp, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	date, clock, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	update := repositories.FollowUpUpdate{
		Description: req.Description,
		Date:        date,
		Time:        clock,
		Completed:   req.Completed,
	}
	if err := s.followUps.Update(ctx, req.ID, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Followup does not exist")
		}
		return nil, storeError(err, "Followup")
	}

	followUp, err := s.followUps.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Followup")
	}
	if followUp == nil {
		return nil, notFound("Followup does not exist")
	}
	return followUp, nil
}

func parseSchedule(date, clock string) (time.Time, string, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, "", invalidInput("date must be in YYYY-MM-DD format")
	}
	if clock == "" {
		return day, "", nil
	}
	normalized, err := models.NormalizeTimeOfDay(clock)
	if err != nil {
		return time.Time{}, "", invalidInput("time " + err.Error())
	}
	return day, normalized, nil
}

func duplicateFollowUp(number int) *ServiceError {
	return conflict(CodeDuplicateEntry, fmt.Sprintf("Followup %d already exists for this complaint", number))
}
