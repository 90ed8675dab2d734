// Package scaffold provides the embedded starter files written by
// "rambler init": a config file, a first post and a minimal theme.
package scaffold

import "embed"

// Templates contains all scaffold files. Files are executed as Go
// text/template with "[[" and "]]" delimiters so theme templates can keep
// their own "{{ }}" syntax. A .tmpl suffix is stripped from the output name.
//
//go:embed all:templates
var Templates embed.FS

// Delims are the text/template delimiters used by every scaffold file.
var Delims = [2]string{"[[", "]]"}
