package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender codes accepted for patient details.
const (
	GenderMale        = "M"
	GenderFemale      = "F"
	GenderTranssexual = "T"
	GenderOther       = "O"
)

// PatientDetails is 1:1 with a patient Credential and shares its primary key.
// Allergies and Illnesses are stored comma-joined.
type PatientDetails struct {
	CredentialID uuid.UUID `gorm:"type:uuid;primaryKey;column:credential_id" json:"-"`
	DateOfBirth  time.Time `gorm:"column:date_of_birth;type:date;not null" json:"date_of_birth"`
	Address      string    `gorm:"column:address;type:text;not null" json:"address"`
	Gender       string    `gorm:"column:gender;size:1;not null;default:'M';check:gender IN ('M', 'F', 'T', 'O')" json:"gender"`
	Allergies    string    `gorm:"column:allergies;type:text;not null;default:''" json:"-"`
	Illnesses    string    `gorm:"column:illnesses;type:text;not null;default:''" json:"-"`
	Smoking      bool      `gorm:"column:smoking;not null;default:false" json:"smoking"`
	Drinking     bool      `gorm:"column:drinking;not null;default:false" json:"drinking"`
	Tobacco      bool      `gorm:"column:tobacco;not null;default:false" json:"tobacco"`
}

func (PatientDetails) TableName() string {
	return "patient_details"
}

// Complaint is a registered visit reason. Date and time are stamped by the server.
type Complaint struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	CredentialID uuid.UUID  `gorm:"type:uuid;column:credential_id;not null;index" json:"-"`
	Description  string     `gorm:"column:complaint;type:text;not null" json:"complaint"`
	RegisteredAt time.Time  `gorm:"column:registered_at;not null;index" json:"registered_at"`
	Credential   Credential `gorm:"foreignKey:CredentialID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Complaint) TableName() string {
	return "complaints"
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Diagnosis records a treatment planned for one tooth within a complaint.
type Diagnosis struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;column:complaint_id;not null;uniqueIndex:idx_diagnosis_complaint_tooth_treatment" json:"complaint"`
	ToothNumber int       `gorm:"column:tooth_number;not null;uniqueIndex:idx_diagnosis_complaint_tooth_treatment" json:"tooth_number"`
	TreatmentID uuid.UUID `gorm:"type:uuid;column:treatment_id;not null;uniqueIndex:idx_diagnosis_complaint_tooth_treatment" json:"treatment"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Complaint   Complaint `gorm:"foreignKey:ComplaintID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Treatment   Treatment `gorm:"foreignKey:TreatmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Diagnosis) TableName() string {
	return "diagnosis"
}

func (d *Diagnosis) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// FollowUp is a scheduled sitting after the initial complaint. Number starts at 1.
type FollowUp struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;column:complaint_id;not null;uniqueIndex:idx_followups_complaint_number" json:"complaint"`
	Number      int       `gorm:"column:number;not null;uniqueIndex:idx_followups_complaint_number" json:"number"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Date        time.Time `gorm:"column:date;type:date;not null;index" json:"date"`
	Time        string    `gorm:"column:time;size:8;not null;default:''" json:"time"`
	Completed   bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	Complaint   Complaint `gorm:"foreignKey:ComplaintID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (FollowUp) TableName() string {
	return "followups"
}

func (f *FollowUp) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Bill is 1:1 with a complaint. Total tracks the prices of diagnosed treatments.
type Bill struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ComplaintID uuid.UUID  `gorm:"type:uuid;column:complaint_id;not null;uniqueIndex" json:"complaint"`
	Total       int        `gorm:"column:total;not null;default:0" json:"total"`
	Paid        int        `gorm:"column:paid;not null;default:0" json:"paid"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Complaint   Complaint  `gorm:"foreignKey:ComplaintID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Discounts   []Discount `gorm:"foreignKey:BillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"discounts"`
}

func (Bill) TableName() string {
	return "bills"
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DiscountTotal sums all discounts granted on the bill.
func (b *Bill) DiscountTotal() int {
	sum := 0
	for _, d := range b.Discounts {
		sum += d.Amount
	}
	return sum
}

// Payable is what the patient still owes, never negative.
func (b *Bill) Payable() int {
	if p := b.Total - b.DiscountTotal() - b.Paid; p > 0 {
		return p
	}
	return 0
}

type Discount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	BillID    uuid.UUID `gorm:"type:uuid;column:bill_id;not null;index" json:"-"`
	Amount    int       `gorm:"column:amount;not null;check:amount > 0" json:"amount"`
	Reason    string    `gorm:"column:reason;type:text;not null;default:''" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Discount) TableName() string {
	return "discounts"
}

func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// PatientPrescription is a medication prescribed in one sitting of a complaint.
// Sitting 0 is the initial visit; higher numbers match follow-up numbers.
type PatientPrescription struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ComplaintID    uuid.UUID    `gorm:"type:uuid;column:complaint_id;not null;uniqueIndex:idx_patient_prescriptions_sitting" json:"complaint_id"`
	Sitting        int          `gorm:"column:sitting;not null;uniqueIndex:idx_patient_prescriptions_sitting" json:"sitting"`
	PrescriptionID uuid.UUID    `gorm:"type:uuid;column:prescription_id;not null;uniqueIndex:idx_patient_prescriptions_sitting" json:"prescription_id"`
	Dosage         string       `gorm:"column:dosage;size:100;not null" json:"dosage"`
	DurationDays   int          `gorm:"column:duration_days;not null;default:0" json:"duration_days"`
	Instructions   string       `gorm:"column:instructions;type:text;not null;default:''" json:"instructions"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Complaint      Complaint    `gorm:"foreignKey:ComplaintID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Prescription   Prescription `gorm:"foreignKey:PrescriptionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"prescription,omitempty"`
}

func (PatientPrescription) TableName() string {
	return "patient_prescriptions"
}

func (p *PatientPrescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
