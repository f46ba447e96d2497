// Package charts renders report visualizations as PNG images sized for
// embedding, so the layout engine can place them without further I/O.
package charts

import "github.com/wcharczuk/go-chart/v2/drawing"

// Semantic palette. The risk color mapping is load-bearing for report
// interpretability and must not change: low/positive is always green,
// medium/caution amber, high/negative red.
var (
	ColorPrimary      = drawing.ColorFromHex("1E1847") // dark navy
	ColorPrimaryLight = drawing.ColorFromHex("E8E7F0")
	ColorLowRisk      = drawing.ColorFromHex("2DC77A") // green
	ColorMediumRisk   = drawing.ColorFromHex("F59E0B") // amber
	ColorHighRisk     = drawing.ColorFromHex("EF4444") // red
	ColorNeutral      = drawing.ColorFromHex("64748B") // slate
	ColorBackground   = drawing.ColorFromHex("F8FAFC")
	ColorText         = drawing.ColorFromHex("1E293B")
)
