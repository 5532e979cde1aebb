package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Treatment is a billable procedure in the clinic catalog.
type Treatment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Price     int       `gorm:"column:price;not null;check:price >= 0" json:"price"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Treatment) TableName() string {
	return "treatments"
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Prescription is a medication in the clinic catalog.
type Prescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Type      string    `gorm:"column:type;not null" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Allergy struct {
	ID   uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (Allergy) TableName() string {
	return "allergies"
}

type MedicalCondition struct {
	ID   uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (MedicalCondition) TableName() string {
	return "medical_conditions"
}
