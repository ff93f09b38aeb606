// Package assets embeds the read-only files shipped with the application.
package assets

import "embed"

// FS holds the bundled assets, addressed by file name.
//
//go:embed employmentdata.json
var FS embed.FS
