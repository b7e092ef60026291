package results

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var csvHeader = append([]string{"id", "algorithm", "scenario", "floors", "riders", "served"}, Metrics...)

// WriteCSV writes one row per run.
func WriteCSV(w io.Writer, runs []Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range runs {
		r := &runs[i]
		row := []string{r.ID, r.Algorithm, r.Scenario, strconv.Itoa(r.Floors), strconv.Itoa(r.Riders), strconv.Itoa(r.Served)}
		for _, m := range Metrics {
			v, _ := r.Metric(m)
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderMarkdown formats the comparison as a markdown document with one
// table row per algorithm and "mean ± std" cells.
func RenderMarkdown(cmp Comparison) string {
	var b strings.Builder
	b.WriteString("# Algorithm comparison\n\n")
	if len(cmp.Algorithms) == 0 {
		b.WriteString("No recorded runs.\n")
		return b.String()
	}

	b.WriteString("| Algorithm | Runs |")
	for _, m := range cmp.Metrics {
		fmt.Fprintf(&b, " %s |", m)
	}
	b.WriteString("\n|---|---:|")
	for range cmp.Metrics {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	for _, a := range cmp.Algorithms {
		fmt.Fprintf(&b, "| %s | %d |", a.Algorithm, a.Runs)
		for _, m := range cmp.Metrics {
			agg := a.Metrics[m]
			fmt.Fprintf(&b, " %.2f ± %.2f |", agg.Mean, agg.Std)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>liftsim comparison</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
td { text-align: right; }
</style>
</head>
<body>
{{.Body}}
<p><small>Generated {{.Generated}}</small></p>
</body>
</html>
`))

// RenderHTML renders the markdown report as a standalone HTML page.
func RenderHTML(cmp Comparison) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(cmp)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var out bytes.Buffer
	err := reportTemplate.Execute(&out, struct {
		Body      template.HTML
		Generated string
	}{
		Body:      template.HTML(body.String()),
		Generated: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("executing report template: %w", err)
	}
	return out.Bytes(), nil
}
