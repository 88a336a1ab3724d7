package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHuman, FormatJSON, FormatCSV:
		return Format(s), nil
	case "":
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: human, json, csv)", s)
	}
}

type Renderer interface {
	Render(w io.Writer, report model.Report) error
}

func New(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &jsonRenderer{}
	case FormatCSV:
		return &csvRenderer{}
	default:
		return &humanRenderer{}
	}
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, report model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type csvRenderer struct{}

func (r *csvRenderer) Render(w io.Writer, report model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"severity", "code", "kind", "namespace", "name", "container", "message"}); err != nil {
		return err
	}
	for _, f := range report.Findings {
		row := []string{
			string(f.Severity),
			f.Code,
			string(f.Record.Kind),
			f.Record.Namespace,
			f.Record.Name,
			f.Record.Container,
			f.Message,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type humanRenderer struct{}

func (r *humanRenderer) Render(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "=== %s pass ===\n\n", report.Pass)

	if len(report.Findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SEVERITY\tCODE\tNAMESPACE\tNAME\tCONTAINER\n")
	for _, f := range report.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			strings.ToUpper(string(f.Severity)),
			f.Code,
			orDash(f.Record.Namespace),
			orDash(f.Record.Name),
			orDash(f.Record.Container),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if summary := exitCodeSummary(report); len(summary) > 0 {
		fmt.Fprintf(w, "\nExit codes observed:\n")
		for _, g := range summary {
			fmt.Fprintf(w, "  %d\tx%d\n", g.code, g.count)
		}
	}

	for _, f := range report.Findings {
		fmt.Fprintf(w, "\n--- %s ---\n", f.Code)
		fmt.Fprintf(w, "%s\n", f.Message)
		if len(f.NextSteps) > 0 {
			fmt.Fprintf(w, "Next steps:\n")
			for i, s := range f.NextSteps {
				fmt.Fprintf(w, "  %d. %s\n", i+1, s)
			}
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type exitCodeGroup struct {
	code  int32
	count int
}

func exitCodeSummary(report model.Report) []exitCodeGroup {
	counts := make(map[int32]int)
	for _, rec := range report.Restarts {
		if rec.LastExitCode != model.UnknownExitCode {
			counts[rec.LastExitCode]++
		}
	}
	for _, rec := range report.Shutdowns {
		counts[rec.ExitCode]++
	}

	groups := make([]exitCodeGroup, 0, len(counts))
	for code, n := range counts {
		groups = append(groups, exitCodeGroup{code: code, count: n})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].code < groups[j].code })
	return groups
}
