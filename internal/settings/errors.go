package settings

import "codeberg.org/mutker/appdiag/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("settings_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("settings_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("settings_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("settings_schema_migration_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("settings_storage_access_failed")
	ErrStorageInit   = errors.ErrInitFailed
	ErrStorageClose  = errors.ErrShutdownFailed

	// Value Errors
	ErrInvalidName  = errors.ErrorCode("settings_invalid_name")
	ErrInvalidValue = errors.ErrorCode("settings_invalid_value")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)
