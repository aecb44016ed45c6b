package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Schema tooling.

GENERATE_MODELS=true migrates the projects table and writes typed query helpers to
./generated. GENERATE_COLUMN_REPORT=true only prints the columns present in the
database but missing from ProjectRecord, e.g. columns left behind by the hosted
dashboard:

	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - updated_at
*/

// Migrate creates or extends the projects table.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(&ProjectRecord{}); err != nil {
		return fmt.Errorf("migrate projects: %w", err)
	}
	return nil
}

// GenerateModels migrates, reports drift and generates query helpers.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	log.Info().Msg("Starting database migration...")
	if err := Migrate(db); err != nil {
		return err
	}
	log.Info().Msg("Database migration completed successfully")

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(ProjectRecord{})
	g.Execute()

	log.Info().Msg("Model generation complete")
	return nil
}

// GenerateColumnMismatchReport logs and returns the columns ProjectRecord does not map.
func GenerateColumnMismatchReport(db *gorm.DB) ([]string, error) {
	tableName := ProjectRecord{}.TableName()

	dbColumns, err := getTableColumns(db, tableName)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			log.Warn().Str("table", tableName).Msg("Table does not exist yet (will be created during migration)")
			return nil, nil
		}
		return nil, err
	}

	mismatches := findColumnMismatches(dbColumns, getModelFields(ProjectRecord{}))
	if len(mismatches) > 0 {
		log.Warn().Str("table", tableName).Strs("columns", mismatches).Msg("Columns not accounted for in model")
	} else {
		log.Info().Str("table", tableName).Msg("All columns are accounted for in the model")
	}
	return mismatches, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// getModelFields lists the column names declared in gorm tags
func getModelFields(model interface{}) []string {
	var fields []string
	t := reflect.TypeOf(model)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if column := extractColumnNameFromGormTag(field.Tag.Get("gorm")); column != "" {
			fields = append(fields, column)
		}
	}
	return fields
}

func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
