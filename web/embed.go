// Package web provides the embedded default theme assets (CSS) shipped
// with docsmith. Site authors can extend the theme with a custom CSS
// file appended after it at build time.
package web

import "embed"

// ThemeFS embeds the web/static/ directory tree containing the default
// theme stylesheet. The builder copies it into the output directory on
// every build.
//
//go:embed all:static
var ThemeFS embed.FS
