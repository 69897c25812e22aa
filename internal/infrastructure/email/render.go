package email

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"signalradar/internal/domain"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Subject}}</title>
</head>
<body style="background-color:#0d1117;color:#c9d1d9;font-family:monospace;">
<div style="max-width:700px;margin:0 auto;padding:20px;">
  <h1 style="color:#58a6ff;">{{.Subject}}</h1>
  <p style="color:#8b949e;">Generated: {{.Date}}{{if .Partial}} &middot; partial result{{end}}</p>
  <table style="width:100%;border-collapse:collapse;">
    <thead>
      <tr style="border-bottom:2px solid #30363d;">
        <th style="padding:8px;text-align:left;color:#8b949e;">#</th>
        <th style="padding:8px;text-align:left;color:#8b949e;">Title</th>
        <th style="padding:8px;text-align:left;color:#8b949e;">Platform</th>
        <th style="padding:8px;text-align:left;color:#8b949e;">Tier</th>
        <th style="padding:8px;text-align:left;color:#8b949e;">Signal</th>
        <th style="padding:8px;text-align:left;color:#8b949e;">Categories</th>
      </tr>
    </thead>
    <tbody>
{{range .Rows}}      <tr style="border-bottom:1px solid #30363d;">
        <td style="padding:8px;color:#58a6ff;">{{.Rank}}</td>
        <td style="padding:8px;"><a href="{{.URL}}" style="color:#58a6ff;">{{.Title}}</a><br>
          <span style="color:#8b949e;font-size:12px;">{{.Excerpt}}</span></td>
        <td style="padding:8px;color:#8b949e;">{{.Platform}}</td>
        <td style="padding:8px;color:#8b949e;">{{.Tier}}</td>
        <td style="padding:8px;color:#8b949e;">{{.Signal}}</td>
        <td style="padding:8px;color:#8b949e;">{{.Categories}}</td>
      </tr>
{{end}}    </tbody>
  </table>
{{if .Breakdowns}}  <h2 style="color:#58a6ff;font-size:14px;">This week by platform</h2>
  <p style="color:#8b949e;">{{.PlatformBreakdown}}</p>
  <h2 style="color:#58a6ff;font-size:14px;">This week by category</h2>
  <p style="color:#8b949e;">{{.CategoryBreakdown}}</p>
{{end}}  <p style="color:#8b949e;font-size:12px;margin-top:20px;">
    Signal Radar &mdash; open source maintainer pain intelligence
  </p>
</div>
</body>
</html>`))

type templateRow struct {
	Rank       int
	URL        string
	Title      string
	Excerpt    string
	Platform   string
	Tier       domain.SourceTier
	Signal     string
	Categories string
}

type templateData struct {
	Subject           string
	Date              string
	Partial           bool
	Rows              []templateRow
	Breakdowns        bool
	PlatformBreakdown string
	CategoryBreakdown string
}

// Render produces the HTML body for a report. Weekly reports additionally
// carry the platform and category breakdowns.
func Render(report domain.Report) string {
	data := templateData{
		Subject: Subject(report),
		Date:    report.GeneratedAt.Format("2006-01-02"),
		Partial: report.Partial,
	}
	for _, e := range report.Entries {
		data.Rows = append(data.Rows, templateRow{
			Rank:       e.Rank,
			URL:        e.Post.URL,
			Title:      e.Post.Title,
			Excerpt:    e.Excerpt,
			Platform:   e.Post.Platform,
			Tier:       e.Post.SourceTier,
			Signal:     formatSignal(e.Post.SignalScore),
			Categories: joinCategories(e.TopCategories),
		})
	}
	if report.Kind == domain.RunWeekly {
		data.Breakdowns = true
		data.PlatformBreakdown = formatCounts(report.PlatformBreakdown)
		data.CategoryBreakdown = formatCategoryCounts(report.CategoryBreakdown)
	}

	var buf strings.Builder
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func formatSignal(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func joinCategories(categories []domain.PainCategory) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, " | ")
}

func formatCategoryCounts(counts map[domain.PainCategory]int) string {
	byName := make(map[string]int, len(counts))
	for cat, n := range counts {
		byName[string(cat)] = n
	}
	return formatCounts(byName)
}
