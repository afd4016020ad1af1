package mapping

import (
	"testing"
	"time"

	"MC-REPORT/internal/models"

	"github.com/stretchr/testify/assert"
)

func fieldWith(name, mapping string) models.DynamicField {
	return models.DynamicField{ID: name, FieldName: name, FieldType: models.FieldText, DataMapping: mapping}
}

func sampleContext() DataContext {
	return DataContext{
		Patient: map[string]interface{}{
			"name":        "Jane Doe",
			"patientId":   float64(42),
			"age":         float64(34),
			"gender":      "female",
			"phoneNumber": "555-0101",
			"address":     "12 Main St",
		},
		Visit: map[string]interface{}{
			"visitDate":  time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC),
			"doctorName": "Dr. Chen",
			"notes":      "follow-up in two weeks",
		},
	}
}

func TestResolve_PatientAndVisitMappings(t *testing.T) {
	fields := []models.DynamicField{
		fieldWith("patient_name", "patient.name"),
		fieldWith("patient_id", "patient.id"),
		fieldWith("age", "patient.age"),
		fieldWith("phone", "patient.phone"),
		fieldWith("visit_date", "visit.date"),
		fieldWith("doctor", "visit.doctor"),
		fieldWith("notes", "visit.notes"),
	}

	out := Resolve(fields, sampleContext(), nil)

	assert.Equal(t, "Jane Doe", out["patient_name"])
	assert.Equal(t, "42", out["patient_id"], "whole JSON numbers print without decimal point")
	assert.Equal(t, "34", out["age"])
	assert.Equal(t, "555-0101", out["phone"])
	assert.Equal(t, "3/9/2026", out["visit_date"], "visit date uses the locale date form")
	assert.Equal(t, "Dr. Chen", out["doctor"])
	assert.Equal(t, "follow-up in two weeks", out["notes"])
}

func TestResolve_CustomAndUnrecognizedLeaveValuesUntouched(t *testing.T) {
	fields := []models.DynamicField{
		fieldWith("remarks", MappingCustom),
		fieldWith("unmapped", ""),
		fieldWith("weird", "patient.bloodtype"),
		fieldWith("nodot", "patient"),
	}
	values := map[string]string{
		"remarks": "typed by hand",
		"weird":   "already filled",
	}

	out := Resolve(fields, sampleContext(), values)

	assert.Equal(t, "typed by hand", out["remarks"])
	assert.Equal(t, "already filled", out["weird"])
	_, ok := out["unmapped"]
	assert.False(t, ok, "unresolvable fields gain no entry")
	_, ok = out["nodot"]
	assert.False(t, ok)
}

func TestResolve_MissingRecordPreservesManualInput(t *testing.T) {
	fields := []models.DynamicField{fieldWith("patient_name", "patient.name")}
	values := map[string]string{"patient_name": "typed manually"}

	out := Resolve(fields, DataContext{}, values)

	assert.Equal(t, "typed manually", out["patient_name"])
}

func TestResolve_Idempotent(t *testing.T) {
	fields := []models.DynamicField{
		fieldWith("patient_name", "patient.name"),
		fieldWith("visit_date", "visit.date"),
		fieldWith("remarks", MappingCustom),
	}
	dc := sampleContext()
	values := map[string]string{"remarks": "stable"}

	first := Resolve(fields, dc, values)
	second := Resolve(fields, dc, first)

	assert.Equal(t, first, second)
}

func TestResolve_DateMappingsResolveToToday(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	fields := []models.DynamicField{
		fieldWith("test_date", MappingTestDate),
		fieldWith("report_date", MappingReportDate),
	}

	out := Resolve(fields, DataContext{}, nil)

	assert.Equal(t, "8/31/2026", out["test_date"])
	assert.Equal(t, "8/31/2026", out["report_date"])
}

func TestResolve_ReportNamespaceUsesDirectKeys(t *testing.T) {
	fields := []models.DynamicField{
		fieldWith("hemoglobin", "report.hemoglobin"),
		fieldWith("flagged", "report.flagged"),
	}
	dc := DataContext{Report: map[string]interface{}{
		"hemoglobin": 13.5,
		"flagged":    true,
	}}

	out := Resolve(fields, dc, nil)

	assert.Equal(t, "13.5", out["hemoglobin"])
	assert.Equal(t, "true", out["flagged"])
}

func TestResolve_VisitDateFromRFC3339String(t *testing.T) {
	fields := []models.DynamicField{fieldWith("visit_date", "visit.date")}
	dc := DataContext{Visit: map[string]interface{}{
		"visitDate": "2026-01-05T09:00:00Z",
	}}

	out := Resolve(fields, dc, nil)

	assert.Equal(t, "1/5/2026", out["visit_date"])
}
