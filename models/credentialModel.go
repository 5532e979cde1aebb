package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is one of the fixed clinic roles carried in credentials and session tokens.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDentist Role = "dentist"
	RolePatient Role = "patient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDentist, RolePatient:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to clinic staff.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleDentist
}

// Credential is the root identity record. Identity is the (phonenumber, name) pair
// since family members may share one phone number.
type Credential struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	PhoneNumber int64           `gorm:"column:phonenumber;not null;uniqueIndex:idx_credentials_phone_name" json:"phonenumber"`
	Name        string          `gorm:"column:name;size:255;not null;uniqueIndex:idx_credentials_phone_name" json:"name"`
	Role        Role            `gorm:"column:role;size:20;not null;check:role IN ('admin', 'dentist', 'patient')" json:"role"`
	Password    string          `gorm:"column:password;size:255;not null;default:''" json:"-"`
	Active      bool            `gorm:"column:active;not null;default:false" json:"active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Details     *PatientDetails `gorm:"foreignKey:CredentialID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"details,omitempty"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the patient has completed signup.
func (c *Credential) HasPassword() bool {
	return c.Password != ""
}
