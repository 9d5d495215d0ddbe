// Package web holds the embedded HTML templates and static assets.
package web

import "embed"

//go:embed templates/*.html static/*
var Assets embed.FS
