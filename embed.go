package rambler

import "embed"

// EditorAssets contains the editor's stylesheet and script:
// editor.css, editor.js
//
//go:embed embedded/*
var EditorAssets embed.FS
