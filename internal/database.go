package internal

import (
	"fmt"

	"MC-REPORT/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

func autoMigrate() error {
	// Create tables only if they don't exist (preserve existing data)
	fmt.Println("Creating report_templates table if not exists...")
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS report_templates (
            id varchar(191) PRIMARY KEY,
            template_name text NOT NULL,
            description text,
            category varchar(50),
            static_elements jsonb,
            dynamic_fields jsonb,
            layout_config jsonb,
            mappings jsonb,
            static_content text,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create report_templates table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_report_templates_deleted_at ON report_templates(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_report_templates_category ON report_templates(category)")

	fmt.Println("Creating generated_reports table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS generated_reports (
            id varchar(191) PRIMARY KEY,
            template_id varchar(191) NOT NULL,
            patient_id varchar(191),
            visit_id varchar(191),
            storage_path_html text,
            storage_path_pdf text,
            file_size bigint,
            "values" jsonb,
            status varchar(191) DEFAULT 'completed',
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create generated_reports table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_generated_reports_template_id ON generated_reports(template_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_generated_reports_patient_id ON generated_reports(patient_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_generated_reports_visit_id ON generated_reports(visit_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_generated_reports_deleted_at ON generated_reports(deleted_at)")

	fmt.Println("Creating patients table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS patients (
            id varchar(191) PRIMARY KEY,
            patient_id varchar(191) UNIQUE,
            name text NOT NULL,
            age int,
            gender varchar(20),
            phone_number varchar(50),
            address text,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create patients table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_patients_deleted_at ON patients(deleted_at)")

	fmt.Println("Creating visits table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS visits (
            id varchar(191) PRIMARY KEY,
            patient_id varchar(191),
            visit_date timestamp(3) NULL,
            doctor_name text,
            diagnosis text,
            notes text,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create visits table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_visits_patient_id ON visits(patient_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_visits_deleted_at ON visits(deleted_at)")

	fmt.Println("Creating activity_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(191) PRIMARY KEY,
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            user_agent text,
            ip_address varchar(45),
            request_body text,
            query_params text,
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity_logs table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_deleted_at ON activity_logs(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_method ON activity_logs(method)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_path ON activity_logs(path)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at)")

	fmt.Println("Creating statistics table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS statistics (
            id varchar(36) PRIMARY KEY,
            event_type varchar(50) NOT NULL,
            template_id varchar(191),
            date date NOT NULL,
            count bigint NOT NULL DEFAULT 0,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create statistics table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_statistics_deleted_at ON statistics(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_statistics_event_type ON statistics(event_type)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_statistics_template_id ON statistics(template_id)")
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_statistics_unique ON statistics(event_type, template_id, date) WHERE deleted_at IS NULL")

	fmt.Println("Tables created/verified successfully")
	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
