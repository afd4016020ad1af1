package models

import (
	"time"

	"gorm.io/gorm"
)

// Category classifies a report template.
type Category string

const (
	CategoryBloodTest     Category = "BLOOD_TEST"
	CategoryUrineTest     Category = "URINE_TEST"
	CategoryXRay          Category = "X_RAY"
	CategoryECG           Category = "ECG"
	CategoryUltrasound    Category = "ULTRASOUND"
	CategoryGeneralReport Category = "GENERAL_REPORT"
)

// Valid reports whether c is a known category. Empty is allowed; templates
// without a category show up under GENERAL_REPORT in the library.
func (c Category) Valid() bool {
	switch c {
	case "", CategoryBloodTest, CategoryUrineTest, CategoryXRay,
		CategoryECG, CategoryUltrasound, CategoryGeneralReport:
		return true
	}
	return false
}

// ReportTemplate is the persisted template row. Element lists, layout and the
// derived mappings dictionary are stored as JSON columns and parsed into a
// TemplateDocument for anything beyond listing. The document is replaced as
// a whole on update; there are no partial field patches.
type ReportTemplate struct {
	ID           string   `gorm:"primaryKey" json:"id"`
	TemplateName string   `gorm:"not null" json:"template_name"`
	Description  string   `json:"description"`
	Category     Category `gorm:"type:varchar(50)" json:"category"`

	StaticElements string `gorm:"type:json" json:"static_elements"` // JSON array of StaticElement
	DynamicFields  string `gorm:"type:json" json:"dynamic_fields"`  // JSON array of DynamicField
	LayoutConfig   string `gorm:"type:json" json:"layout_config"`   // canvas + combined element list
	Mappings       string `gorm:"type:json" json:"mappings"`        // derived fieldName -> dataMapping, recomputed on save
	StaticContent  string `gorm:"type:text" json:"static_content"`  // rendered HTML body with placeholders intact

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Reports []GeneratedReport `gorm:"foreignKey:TemplateID" json:"reports,omitempty"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}

// GeneratedReport is one rendered report produced from a template and a data
// context. The HTML artifact (and PDF when conversion succeeded) live in
// object storage; the row keeps the values that were substituted so the
// report can be regenerated.
type GeneratedReport struct {
	ID         string `gorm:"primaryKey" json:"id"`
	TemplateID string `gorm:"not null;index" json:"template_id"`
	PatientID  string `gorm:"index" json:"patient_id"`
	VisitID    string `gorm:"index" json:"visit_id"`

	StoragePathHTML string `gorm:"column:storage_path_html" json:"storage_path_html"`
	StoragePathPDF  string `gorm:"column:storage_path_pdf" json:"storage_path_pdf,omitempty"`
	FileSize        int64  `json:"file_size"`

	Values string `gorm:"type:json" json:"values"` // fieldName -> substituted value
	Status string `gorm:"default:'completed'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Template ReportTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (GeneratedReport) TableName() string {
	return "generated_reports"
}
