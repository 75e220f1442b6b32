// Package report renders the downloadable farm advisory report.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/server/insights"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/scoring"
)

const (
	FileName    = "krishirakshak_ai_report.html"
	ContentType = "text/html; charset=utf-8"
)

//go:embed report.html.tmpl
var reportTemplate string

// Data is everything a report shows. Profile may be nil.
type Data struct {
	GeneratedAt     time.Time
	UserName        string
	Profile         *models.FarmProfile
	Rationale       string
	Recommendations []scoring.CropRecommendation
	Risk            scoring.RiskPrediction
	Market          []insights.MarketPrice
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"fixed2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"optf":   optFloat,
		"opts":   optString,
		"ts":     func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template. All user-provided text is HTML-escaped.
func (r *Renderer) Render(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func optString(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
