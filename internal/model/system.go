package model

// VersionInfo reports the application version and the state of the snapshot schema.
type VersionInfo struct {
	AppVersion      string          `json:"app_version"`
	SchemaVersion   int64           `json:"schema_version"`
	LatestSchema    int64           `json:"latest_schema"`
	MigrationNeeded bool            `json:"migration_needed"`
	Features        map[string]bool `json:"features"`
}
