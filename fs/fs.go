package appfs

import "embed"

// FS holds the application's embedded files (database migrations).
//
//go:embed migrations
var FS embed.FS
