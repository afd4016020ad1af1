package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"MC-REPORT/internal"
	"MC-REPORT/internal/mapping"
	"MC-REPORT/internal/models"

	"gorm.io/gorm"
)

// ContextProvider supplies the patient/visit/report records for one
// report-generation request. An empty id means that namespace is simply
// unavailable for auto-fill; a provider never invents records.
type ContextProvider interface {
	FetchContext(ctx context.Context, patientID, visitID string) (mapping.DataContext, error)
}

// DBContextProvider reads patient and visit records from the service
// database. The administrative CRUD screens own those tables; this provider
// only reads them.
type DBContextProvider struct{}

func NewDBContextProvider() *DBContextProvider {
	return &DBContextProvider{}
}

func (p *DBContextProvider) FetchContext(ctx context.Context, patientID, visitID string) (mapping.DataContext, error) {
	var dc mapping.DataContext

	if patientID != "" {
		var patient models.Patient
		err := internal.DB.WithContext(ctx).
			First(&patient, "id = ? OR patient_id = ?", patientID, patientID).Error
		switch {
		case err == nil:
			dc.Patient = map[string]interface{}{
				"name":        patient.Name,
				"patientId":   patient.PatientID,
				"age":         patient.Age,
				"gender":      patient.Gender,
				"phoneNumber": patient.PhoneNumber,
				"address":     patient.Address,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unknown patient degrades to an unavailable namespace.
			log.Printf("data context: patient %s not found", patientID)
		default:
			return dc, fmt.Errorf("failed to load patient %s: %w", patientID, err)
		}
	}

	if visitID != "" {
		var visit models.Visit
		err := internal.DB.WithContext(ctx).First(&visit, "id = ?", visitID).Error
		switch {
		case err == nil:
			dc.Visit = map[string]interface{}{
				"visitDate":  visit.VisitDate,
				"doctorName": visit.DoctorName,
				"diagnosis":  visit.Diagnosis,
				"notes":      visit.Notes,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("data context: visit %s not found", visitID)
		default:
			return dc, fmt.Errorf("failed to load visit %s: %w", visitID, err)
		}
	}

	return dc, nil
}

var _ ContextProvider = (*DBContextProvider)(nil)
