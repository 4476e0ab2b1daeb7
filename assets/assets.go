// Package assets embeds the files the binaries ship with.
package assets

import "embed"

//go:embed all:templates
var FS embed.FS
