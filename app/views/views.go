// Package views embeds the HTML templates of the web front end.
package views

import "embed"

//go:embed layout.html posts/*.html
var FS embed.FS
