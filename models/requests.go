package models

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05"
)

var requiredUUID = validation.By(func(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
})

var timeOfDay = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := NormalizeTimeOfDay(s)
	return err
})

// NormalizeTimeOfDay accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeOfDayLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeOfDayLayout), nil
		}
	}
	return "", errors.New("must be a time of day in HH:MM or HH:MM:SS format")
}

// CredentialRequest is the body of signup and login.
type CredentialRequest struct {
	PhoneNumber PhoneNumber `json:"phonenumber"`
	Name        string      `json:"name"`
	Password    string      `json:"password"`
}

func (r CredentialRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PhoneNumber, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required),
	)
}

type ResetPasswordRequest struct {
	Name        string      `json:"name"`
	PhoneNumber PhoneNumber `json:"phonenumber"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PhoneNumber, validation.Required),
	)
}

type ChangePhoneNumberRequest struct {
	Name           string      `json:"name"`
	OldPhoneNumber PhoneNumber `json:"old_phonenumber"`
	NewPhoneNumber PhoneNumber `json:"new_phonenumber"`
}

func (r ChangePhoneNumberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.OldPhoneNumber, validation.Required),
		validation.Field(&r.NewPhoneNumber, validation.Required),
	)
}

type PatientDetailsInput struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	Gender      string `json:"gender"`
}

func (d PatientDetailsInput) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.DateOfBirth, validation.Required, validation.Date(DateLayout)),
		validation.Field(&d.Address, validation.Required),
		validation.Field(&d.Gender, validation.Required, validation.In(GenderMale, GenderFemale, GenderTranssexual, GenderOther)),
	)
}

// RegisterPatientRequest provisions a patient account together with its details.
type RegisterPatientRequest struct {
	PhoneNumber PhoneNumber         `json:"phonenumber"`
	Details     PatientDetailsInput `json:"details"`
}

func (r RegisterPatientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PhoneNumber, validation.Required),
		validation.Field(&r.Details),
	)
}

type ComplaintInput struct {
	Name           string `json:"name"`
	ChiefComplaint string `json:"chief_complaint"`
}

func (c ComplaintInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.ChiefComplaint, validation.Required),
	)
}

type RegisterComplaintRequest struct {
	PhoneNumber PhoneNumber    `json:"phonenumber"`
	Complaint   ComplaintInput `json:"complaint"`
}

func (r RegisterComplaintRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PhoneNumber, validation.Required),
		validation.Field(&r.Complaint),
	)
}

type CreateDiagnosisRequest struct {
	Complaint   uuid.UUID `json:"complaint"`
	Treatment   uuid.UUID `json:"treatment"`
	ToothNumber int       `json:"tooth_number"`
}

// Tooth numbers use FDI notation; 1..99 bounds the two-digit form.
func (r CreateDiagnosisRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Complaint, requiredUUID),
		validation.Field(&r.Treatment, requiredUUID),
		validation.Field(&r.ToothNumber, validation.Required, validation.Min(1), validation.Max(99)),
	)
}

type UpdateDiagnosisRequest struct {
	ID        uuid.UUID `json:"id"`
	Treatment uuid.UUID `json:"treatment"`
}

func (r UpdateDiagnosisRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, requiredUUID),
		validation.Field(&r.Treatment, requiredUUID),
	)
}

type FollowUpInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Completed   bool   `json:"completed"`
	Number      int    `json:"number"`
}

func (f FollowUpInput) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&f.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&f.Time, timeOfDay),
		validation.Field(&f.Number, validation.Required, validation.Min(1)),
	)
}

type CreateFollowUpRequest struct {
	ComplaintID uuid.UUID     `json:"complaint_id"`
	FollowUp    FollowUpInput `json:"followup"`
}

func (r CreateFollowUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ComplaintID, requiredUUID),
		validation.Field(&r.FollowUp),
	)
}

type UpdateFollowUpRequest struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Completed   *bool     `json:"completed"`
}

func (r UpdateFollowUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, requiredUUID),
		validation.Field(&r.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Time, timeOfDay),
	)
}

type IdentityInput struct {
	Name        string      `json:"name"`
	PhoneNumber PhoneNumber `json:"phonenumber"`
}

func (i IdentityInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&i.PhoneNumber, validation.Required),
	)
}

type MedicalDetailsInput struct {
	Allergies []string `json:"allergies"`
	Illnesses []string `json:"illnesses"`
	Smoking   bool     `json:"smoking"`
	Drinking  bool     `json:"drinking"`
	Tobacco   bool     `json:"tobacco"`
}

func (m MedicalDetailsInput) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Allergies, validation.Each(validation.Required, validation.Length(1, 100))),
		validation.Field(&m.Illnesses, validation.Each(validation.Required, validation.Length(1, 100))),
	)
}

type MedicalDetailsRequest struct {
	Identity       IdentityInput       `json:"identity"`
	MedicalDetails MedicalDetailsInput `json:"medical_details"`
}

func (r MedicalDetailsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identity),
		validation.Field(&r.MedicalDetails),
	)
}

type CreatePrescriptionRequest struct {
	ComplaintID    uuid.UUID `json:"complaint_id"`
	Sitting        int       `json:"sitting"`
	PrescriptionID uuid.UUID `json:"prescription_id"`
	Dosage         string    `json:"dosage"`
	DurationDays   int       `json:"duration_days"`
	Instructions   string    `json:"instructions"`
}

func (r CreatePrescriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ComplaintID, requiredUUID),
		validation.Field(&r.Sitting, validation.Min(0)),
		validation.Field(&r.PrescriptionID, requiredUUID),
		validation.Field(&r.Dosage, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DurationDays, validation.Min(0)),
	)
}

type UpdatePrescriptionRequest struct {
	ID           uuid.UUID `json:"id"`
	Dosage       string    `json:"dosage"`
	DurationDays int       `json:"duration_days"`
	Instructions string    `json:"instructions"`
}

func (r UpdatePrescriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, requiredUUID),
		validation.Field(&r.Dosage, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DurationDays, validation.Min(0)),
	)
}

type DiscountInput struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

func (d DiscountInput) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Amount, validation.Required, validation.Min(1)),
	)
}

type AddDiscountRequest struct {
	ComplaintID uuid.UUID     `json:"complaint_id"`
	Discount    DiscountInput `json:"discount"`
}

func (r AddDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ComplaintID, requiredUUID),
		validation.Field(&r.Discount),
	)
}

type RecordPaymentRequest struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	Paid        int       `json:"paid"`
}

func (r RecordPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ComplaintID, requiredUUID),
		validation.Field(&r.Paid, validation.Min(0)),
	)
}

type CreateTreatmentRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func (r CreateTreatmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0)),
	)
}

type CreatePrescriptionEntryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r CreatePrescriptionEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Type, validation.Required, validation.Length(1, 100)),
	)
}

// NamedEntryRequest adds an allergy or a medical condition.
type NamedEntryRequest struct {
	Name string `json:"name"`
}

func (r NamedEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}
