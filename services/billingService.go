package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BillView is the bill of one complaint with its derived amounts.
type BillView struct {
	ID          uuid.UUID         `json:"id"`
	ComplaintID uuid.UUID         `json:"complaint"`
	Total       int               `json:"total"`
	Discount    int               `json:"discount"`
	Paid        int               `json:"paid"`
	Payable     int               `json:"payable"`
	Discounts   []models.Discount `json:"discounts"`
}

// billView renders a missing bill as an empty one.
func billView(complaintID uuid.UUID, bill *models.Bill) *BillView {
	if bill == nil {
		return &BillView{ComplaintID: complaintID, Discounts: []models.Discount{}}
	}
	return &BillView{
		ID:          bill.ID,
		ComplaintID: bill.ComplaintID,
		Total:       bill.Total,
		Discount:    bill.DiscountTotal(),
		Paid:        bill.Paid,
		Payable:     bill.Payable(),
		Discounts:   emptyIfNil(bill.Discounts),
	}
}

type BillingService struct {
	complaints repositories.ComplaintRepository
	bills      repositories.BillingRepository
	log        *logrus.Logger
}

func NewBillingService(complaints repositories.ComplaintRepository, bills repositories.BillingRepository, log *logrus.Logger) *BillingService {
	return &BillingService{complaints: complaints, bills: bills, log: log}
}

func (s *BillingService) Get(ctx context.Context, complaintID uuid.UUID) (*BillView, error) {
	if _, err := findComplaint(ctx, s.complaints, complaintID); err != nil {
		return nil, err
	}
	bill, err := s.bills.FindByComplaint(ctx, complaintID)
	if err != nil {
		return nil, storeError(err, "Bill")
	}
	return billView(complaintID, bill), nil
}

// AddDiscount grants a discount no larger than what is still payable.
func (s *BillingService) AddDiscount(ctx context.Context, req models.AddDiscountRequest) (*BillView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := findComplaint(ctx, s.complaints, req.ComplaintID); err != nil {
		return nil, err
	}
	bill, err := s.bills.Ensure(ctx, req.ComplaintID)
	if err != nil {
		return nil, storeError(err, "Bill")
	}
	if req.Discount.Amount > bill.Payable() {
		return nil, invalidInput("Discount cannot exceed the payable amount")
	}

	discount := &models.Discount{BillID: bill.ID, Amount: req.Discount.Amount, Reason: req.Discount.Reason}
	if err := s.bills.AddDiscount(ctx, discount); err != nil {
		return nil, storeError(err, "Discount")
	}
	metrics.RecordCreated("discount")
	s.log.WithFields(logrus.Fields{"bill_id": bill.ID, "amount": discount.Amount}).Info("Discount added")
	return s.Get(ctx, req.ComplaintID)
}

// RecordPayment stores the total amount paid so far. Settling a non-empty bill
// closes the patient's course of treatment once no other complaint is still owed.
func (s *BillingService) RecordPayment(ctx context.Context, req models.RecordPaymentRequest) (*BillView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	complaint, err := findComplaint(ctx, s.complaints, req.ComplaintID)
	if err != nil {
		return nil, err
	}
	bill, err := s.bills.Ensure(ctx, req.ComplaintID)
	if err != nil {
		return nil, storeError(err, "Bill")
	}

	due := bill.Total - bill.DiscountTotal()
	if req.Paid > due {
		return nil, invalidInput("Paid amount cannot exceed the bill after discounts")
	}
	settled := bill.Total > 0 && req.Paid == due
	closeCourse := false
	if settled {
		owed, err := s.otherComplaintsOwed(ctx, complaint)
		if err != nil {
			return nil, err
		}
		closeCourse = !owed
	}
	if err := s.bills.RecordPayment(ctx, bill.ID, req.Paid, complaint.CredentialID, closeCourse); err != nil {
		return nil, storeError(err, "Bill")
	}
	s.log.WithFields(logrus.Fields{
		"bill_id":       bill.ID,
		"paid":          req.Paid,
		"settled":       settled,
		"course_closed": closeCourse,
	}).Info("Payment recorded")
	return s.Get(ctx, req.ComplaintID)
}

// otherComplaintsOwed reports whether any other complaint of the same patient
// still has something payable on its bill.
func (s *BillingService) otherComplaintsOwed(ctx context.Context, complaint *models.Complaint) (bool, error) {
	complaints, err := s.complaints.ListByCredential(ctx, complaint.CredentialID)
	if err != nil {
		return false, storeError(err, "Complaint")
	}
	for _, other := range complaints {
		if other.ID == complaint.ID {
			continue
		}
		bill, err := s.bills.FindByComplaint(ctx, other.ID)
		if err != nil {
			return false, storeError(err, "Bill")
		}
		if bill != nil && bill.Payable() > 0 {
			return true, nil
		}
	}
	return false, nil
}
