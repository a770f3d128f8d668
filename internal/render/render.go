// SPDX-License-Identifier: MPL-2.0

package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/discovery"
	"github.com/appgrep/appgrep/internal/search"
)

// ErrNilWriter is returned by New when no writer is given.
var ErrNilWriter = errors.New("writer is nil")

type (
	// Options configures a Renderer. A nil DarkBackground lets the
	// terminal decide.
	Options struct {
		Format         Format
		NoColor        bool
		DarkBackground *bool
	}

	// Renderer writes query results in one Format.
	Renderer struct {
		w      io.Writer
		format Format
		st     styles
	}

	hasResult struct {
		Found  bool           `json:"found"`
		Name   string         `json:"name"`
		Source catalog.Source `json:"source,omitempty"`
	}

	matchResult struct {
		catalog.Record
		Tier  string `json:"tier"`
		Score int    `json:"score"`
	}
)

// New returns a Renderer writing to w. An invalid format falls back to
// FormatTable.
func New(w io.Writer, opts Options) (*Renderer, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	if ok, _ := opts.Format.IsValid(); !ok {
		opts.Format = FormatTable
	}
	return &Renderer{w: w, format: opts.Format, st: newStyles(w, opts)}, nil
}

// Format returns the output format.
func (r *Renderer) Format() Format { return r.format }

// Records writes a record list.
func (r *Renderer) Records(records []catalog.Record) error {
	switch r.format {
	case FormatJSON:
		if records == nil {
			records = []catalog.Record{}
		}
		return r.json(records)
	case FormatTSV:
		for _, rec := range records {
			r.tsv(rec.Name, string(rec.Source), rec.Exec, rec.Location, rec.Description)
		}
	case FormatNames:
		for _, rec := range records {
			r.line(rec.Name)
		}
	case FormatExec:
		for _, rec := range records {
			r.line(rec.Exec)
		}
	default:
		if len(records) == 0 {
			r.line(r.st.muted.Render("No applications found."))
			return nil
		}
		rows := make([][]string, len(records))
		for i, rec := range records {
			rows[i] = []string{rec.Name, string(rec.Source), rec.Exec, r.orUnknown(rec.Description)}
		}
		r.table([]string{"NAME", "SOURCE", "EXEC", "DESCRIPTION"}, rows, r.recordCell)
	}
	return nil
}

// Matches writes search results, best first.
func (r *Renderer) Matches(matches []search.Match) error {
	switch r.format {
	case FormatJSON:
		out := make([]matchResult, len(matches))
		for i, m := range matches {
			out[i] = matchResult{Record: m.Record, Tier: m.Tier.String(), Score: m.Score}
		}
		return r.json(out)
	case FormatTSV:
		for _, m := range matches {
			r.tsv(strconv.Itoa(m.Score), m.Tier.String(), m.Record.Name, string(m.Record.Source), m.Record.Exec)
		}
		return nil
	case FormatTable:
		if len(matches) == 0 {
			r.line(r.st.muted.Render("No matches."))
			return nil
		}
		rows := make([][]string, len(matches))
		for i, m := range matches {
			rows[i] = []string{m.Record.Name, string(m.Record.Source), m.Record.Exec, m.Tier.String()}
		}
		r.table([]string{"NAME", "SOURCE", "EXEC", "MATCH"}, rows, r.recordCell)
		return nil
	default:
		records := make([]catalog.Record, len(matches))
		for i, m := range matches {
			records[i] = m.Record
		}
		return r.Records(records)
	}
}

// Record writes the detail view of one record.
func (r *Renderer) Record(rec catalog.Record) error {
	fields := []struct{ label, value string }{
		{"Source", string(rec.Source)},
		{"Also in", joinSources(rec.Corroborating)},
		{"Exec", rec.Exec},
		{"Location", rec.Location},
		{"Icon", rec.Icon},
		{"Categories", strings.Join(rec.Categories, ", ")},
		{"Description", rec.Description},
	}

	switch r.format {
	case FormatJSON:
		return r.json(rec)
	case FormatTSV:
		r.tsv("Name", rec.Name)
		for _, f := range fields {
			r.tsv(f.label, f.value)
		}
	case FormatNames:
		r.line(rec.Name)
	case FormatExec:
		r.line(rec.Exec)
	default:
		var sb strings.Builder
		sb.WriteString(r.st.title.Render(rec.Name))
		sb.WriteString("\n")
		for _, f := range fields {
			fmt.Fprintf(&sb, "  %s %s\n", r.st.label.Render(fmt.Sprintf("%-12s", f.label+":")), r.orUnknown(f.value))
		}
		fmt.Fprint(r.w, sb.String())
	}
	return nil
}

// Has writes the result of a presence check for query. When found, the
// resolved record's name and source are reported. Only FormatJSON
// produces output; every other format is silent so scripts rely on the
// exit code.
func (r *Renderer) Has(query string, rec catalog.Record, found bool) error {
	if r.format != FormatJSON {
		return nil
	}
	if !found {
		return r.json(hasResult{Name: query})
	}
	return r.json(hasResult{Found: true, Name: rec.Name, Source: rec.Source})
}

// Stats writes per-source catalog counts.
func (r *Renderer) Stats(s catalog.Stats) error {
	if r.format == FormatJSON {
		return r.json(s)
	}

	var rows [][]string
	for _, src := range catalog.AllSources() {
		p, c := s.Primary[src], s.Corroborated[src]
		if p == 0 && c == 0 {
			continue
		}
		rows = append(rows, []string{string(src), strconv.Itoa(p), strconv.Itoa(c)})
	}

	if r.format != FormatTable {
		for _, row := range rows {
			r.tsv(row...)
		}
		r.tsv("total", strconv.Itoa(s.Total))
		r.tsv("discovered", strconv.Itoa(s.Discovered))
		return nil
	}

	if len(rows) > 0 {
		r.table([]string{"SOURCE", "PRIMARY", "CORROBORATING"}, rows, nil)
	}
	r.line(r.st.muted.Render(fmt.Sprintf("%d applications (%d records before deduplication)", s.Total, s.Discovered)))
	return nil
}

// Doctor writes a provider health report.
func (r *Renderer) Doctor(d discovery.DoctorReport) error {
	if r.format == FormatJSON {
		return r.json(d)
	}

	rows := make([][]string, len(d.Entries))
	for i, e := range d.Entries {
		rows[i] = []string{
			string(e.Source),
			e.Status,
			strconv.Itoa(e.Count),
			e.Elapsed.Round(time.Millisecond).String(),
			doctorDetail(e),
		}
	}

	if r.format != FormatTable {
		for _, row := range rows {
			r.tsv(row...)
		}
		return nil
	}

	r.table([]string{"SOURCE", "STATUS", "COUNT", "TIME", "DETAILS"}, rows, func(row, col int, _ string) lipgloss.Style {
		if col != 1 {
			return r.st.cell
		}
		switch d.Entries[row].Status {
		case "available":
			return r.st.cell.Inherit(r.st.ok)
		case "unavailable":
			return r.st.cell.Inherit(r.st.muted)
		default:
			return r.st.cell.Inherit(r.st.bad)
		}
	})
	return r.Stats(d.Stats)
}

func doctorDetail(e discovery.DoctorEntry) string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Reason != "":
		return e.Reason
	case len(e.Sample) > 0:
		return strings.Join(e.Sample, ", ")
	default:
		return ""
	}
}

func (r *Renderer) recordCell(_, col int, _ string) lipgloss.Style {
	switch col {
	case 0:
		return r.st.cell.Inherit(r.st.name)
	case 1:
		return r.st.cell.Inherit(r.st.source)
	case 2:
		return r.st.cell.Inherit(r.st.exec)
	default:
		return r.st.cell
	}
}

func (r *Renderer) table(headers []string, rows [][]string, cell func(row, col int, value string) lipgloss.Style) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.st.header
			}
			if cell == nil {
				return r.st.cell
			}
			return cell(row, col, rows[row][col])
		})
	fmt.Fprintln(r.w, t.Render())
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (r *Renderer) tsv(fields ...string) {
	for i, f := range fields {
		fields[i] = tsvReplacer.Replace(f)
	}
	r.line(strings.Join(fields, "\t"))
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func (r *Renderer) line(s string) {
	fmt.Fprintln(r.w, s)
}

func (r *Renderer) orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return r.st.muted.Render(r.st.unknown)
	}
	return s
}

func joinSources(sources []catalog.Source) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
