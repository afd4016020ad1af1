package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient is the administrative patient record. The CRUD screens for these
// live in the front-end; this service only reads them to build the data
// context for report generation.
type Patient struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	PatientID   string         `gorm:"uniqueIndex" json:"patient_id"` // human-facing number
	Name        string         `gorm:"not null" json:"name"`
	Age         int            `json:"age"`
	Gender      string         `json:"gender"`
	PhoneNumber string         `json:"phone_number"`
	Address     string         `json:"address"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Visit is one patient visit.
type Visit struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	PatientID  string         `gorm:"index" json:"patient_id"`
	VisitDate  time.Time      `json:"visit_date"`
	DoctorName string         `json:"doctor_name"`
	Diagnosis  string         `json:"diagnosis"`
	Notes      string         `json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Visit) TableName() string {
	return "visits"
}
