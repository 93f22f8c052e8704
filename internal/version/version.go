// Package version holds build metadata.
package version

// AppVersion is overridden at build time with
// -ldflags "-X github.com/silver-potato-kebab/trade-tracker/internal/version.AppVersion=1.2.3".
var AppVersion = "dev"

// Features lists optional capabilities reported by the version endpoint.
var Features = map[string]bool{
	"csv_import":       true,
	"csv_export":       true,
	"inline_edit":      true,
	"position_sizing":  true,
	"ledger_snapshots": true,
}
