// Package mapping resolves the dotted data-mapping keys of dynamic fields
// ("patient.name", "visit.doctor") against the records supplied for one
// report-generation request. Resolution is additive and best-effort: a key
// that cannot be resolved leaves the field's current value untouched, and
// nothing in this package ever returns an error.
package mapping

import (
	"log"
	"strconv"
	"strings"
	"time"

	"MC-REPORT/internal/models"
)

// DataContext is the read-only bag of records for one generation request.
// A nil record means that namespace was not requested (no patient id, no
// visit id) and is simply unavailable for auto-fill.
type DataContext struct {
	Patient map[string]interface{} `json:"patient,omitempty"`
	Visit   map[string]interface{} `json:"visit,omitempty"`
	Report  map[string]interface{} `json:"report,omitempty"`
}

// DateFormat is the locale date form used for visit dates and the system
// date mappings.
const DateFormat = "1/2/2006"

// Mapping sentinels. Custom fields stay user-editable free text; the two
// date mappings resolve to today regardless of context.
const (
	MappingCustom     = "custom"
	MappingTestDate   = "test_date"
	MappingReportDate = "report_date"
)

// now is replaced in tests.
var now = time.Now

// patientFields and visitFields are the known mapping table, reproduced
// exactly: mapping key field -> source record field.
var patientFields = map[string]string{
	"name":    "name",
	"id":      "patientId",
	"age":     "age",
	"gender":  "gender",
	"phone":   "phoneNumber",
	"address": "address",
}

var visitFields = map[string]string{
	"date":   "visitDate",
	"doctor": "doctorName",
	"notes":  "notes",
}

// Resolve fills field values from the data context. The returned dictionary
// is keyed by fieldName and starts as a copy of values (the caller's manual
// input); only keys that actually resolve are overwritten, so missing
// records or unrecognized mappings never destroy manual input. Resolving the
// same inputs twice yields the same output.
func Resolve(fields []models.DynamicField, dc DataContext, values map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range values {
		out[k] = v
	}

	for _, f := range fields {
		if v, ok := resolveMapping(f.DataMapping, dc); ok {
			out[f.FieldName] = v
		}
	}

	return out
}

func resolveMapping(m string, dc DataContext) (string, bool) {
	switch m {
	case "", MappingCustom:
		return "", false
	case MappingTestDate, MappingReportDate:
		return now().Format(DateFormat), true
	}

	ns, field, ok := strings.Cut(m, ".")
	if !ok {
		return "", false
	}

	switch ns {
	case "patient":
		source, known := patientFields[field]
		if !known {
			return "", false
		}
		return lookup(dc.Patient, source, false)
	case "visit":
		source, known := visitFields[field]
		if !known {
			return "", false
		}
		return lookup(dc.Visit, source, field == "date")
	case "report":
		return lookup(dc.Report, field, false)
	}

	return "", false
}

func lookup(record map[string]interface{}, field string, asDate bool) (string, bool) {
	if record == nil {
		return "", false
	}
	raw, ok := record[field]
	if !ok || raw == nil {
		return "", false
	}
	return formatValue(raw, asDate)
}

// formatValue coerces a record value to its display form. JSON numbers
// arrive as float64; whole values print without a decimal point, so a
// patientId of 42 resolves to "42".
func formatValue(raw interface{}, asDate bool) (string, bool) {
	switch v := raw.(type) {
	case string:
		if asDate {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t.Format(DateFormat), true
			}
		}
		return v, true
	case time.Time:
		if asDate {
			return v.Format(DateFormat), true
		}
		return v.Format(time.RFC3339), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		log.Printf("mapping: skipping value of unsupported type %T", raw)
		return "", false
	}
}
