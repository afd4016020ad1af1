package services

import (
	"context"
	"os"
	"testing"

	"MC-REPORT/internal"
	"MC-REPORT/internal/mapping"
	"MC-REPORT/internal/models"
	"MC-REPORT/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupIntegrationDB connects the package's global DB handle to the test
// database. Tests calling it are skipped unless TEST_DATABASE_DSN points at
// a disposable Postgres instance.
func setupIntegrationDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ReportTemplate{},
		&models.GeneratedReport{},
		&models.Patient{},
		&models.Visit{},
		&models.Statistics{},
	))
	internal.DB = db
}

// fixedContextProvider serves a canned data context, standing in for the
// patient/visit tables.
type fixedContextProvider struct {
	dc mapping.DataContext
}

func (p fixedContextProvider) FetchContext(ctx context.Context, patientID, visitID string) (mapping.DataContext, error) {
	return p.dc, nil
}

func TestReportService_RegenerateSupersedesOriginal(t *testing.T) {
	setupIntegrationDB(t)
	ctx := context.Background()

	store, err := storage.NewLocalClient(t.TempDir(), "", "")
	require.NoError(t, err)

	templateService := NewTemplateService(nil)
	template, err := templateService.CreateTemplate(savableDocument())
	require.NoError(t, err)

	provider := fixedContextProvider{dc: mapping.DataContext{
		Patient: map[string]interface{}{"name": "Jane Doe"},
	}}
	svc := NewReportService(store, templateService, provider, nil, nil)

	result, err := svc.Generate(ctx, template.ID, GenerateRequest{PatientID: "p-1"})
	require.NoError(t, err)
	original := result.Report

	originalPath := store.GetFilePath(original.StoragePathHTML)
	_, err = os.Stat(originalPath)
	require.NoError(t, err)

	regenerated, err := svc.Regenerate(ctx, original.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, regenerated.ID)
	assert.Equal(t, original.Values, regenerated.Values, "regeneration reuses the stored values")

	_, err = svc.GetReport(original.ID)
	assert.Error(t, err, "the superseded row is gone")
	_, err = os.Stat(originalPath)
	assert.True(t, os.IsNotExist(err), "the superseded HTML artifact is removed")

	reports, total, err := svc.GetReports(template.ID, "", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "repeated regenerations never accumulate rows")
	require.Len(t, reports, 1)
	assert.Equal(t, regenerated.ID, reports[0].ID)
}
