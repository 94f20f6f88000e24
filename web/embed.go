// Package web carries the embedded UI: the page and fragment templates
// rendered by the request/usage forms and the static assets behind them.
package web

import "embed"

// TemplatesFS holds index.html plus the summary and dashboard fragments
// swapped in by htmx.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and any other static files.
//go:embed static/*
var StaticFS embed.FS
