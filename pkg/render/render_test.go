package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

func testReport() model.Report {
	report := model.NewReport("restarts", []model.Finding{
		{
			SchemaVersion: model.SchemaVersion,
			Code:          "exit-code-137",
			Severity:      model.SeverityCritical,
			Message:       "container \"api\" restarted 5 time(s); exit code 137: killed by SIGKILL (OOM kill or forced termination)",
			Record: model.RecordRef{
				Kind:      model.KindRestart,
				Namespace: "payments",
				Name:      "api-7f9c5",
				Container: "api",
			},
			NextSteps: []string{
				"kubectl logs -n payments api-7f9c5 -c api --previous",
			},
		},
		{
			SchemaVersion: model.SchemaVersion,
			Code:          "exit-code-1",
			Severity:      model.SeverityWarning,
			Message:       "container \"web\" restarted 2 time(s); exit code 1: application error",
			Record: model.RecordRef{
				Kind:      model.KindRestart,
				Namespace: "default",
				Name:      "web-abc",
				Container: "web",
			},
		},
	})
	report.Restarts = []model.ContainerRestartRecord{
		{Namespace: "default", PodName: "web-abc", ContainerName: "web", RestartCount: 2, LastExitCode: 1, LastTerminationReason: "Error", LastFinishedAt: "2024-06-15T10:00:00Z", Image: "web:1"},
		{Namespace: "payments", PodName: "api-7f9c5", ContainerName: "api", RestartCount: 5, LastExitCode: 137, LastTerminationReason: "OOMKilled", LastFinishedAt: "2024-06-15T10:05:00Z", Image: "api:2"},
		{Namespace: "payments", PodName: "api-8d1e2", ContainerName: "api", RestartCount: 1, LastExitCode: 137, LastTerminationReason: "OOMKilled", LastFinishedAt: "2024-06-15T09:00:00Z", Image: "api:2"},
	}
	return report
}

func TestHumanRendererContent(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatHuman).Render(&buf, testReport()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"restarts pass",
		"CRITICAL",
		"exit-code-137",
		"payments",
		"Exit codes observed:",
		"kubectl logs -n payments api-7f9c5 -c api --previous",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// grouped exit-code counts: two 137s, one 1
	if !strings.Contains(out, "137\tx2") {
		t.Errorf("exit code 137 should be counted twice:\n%s", out)
	}
	if !strings.Contains(out, "1\tx1") {
		t.Errorf("exit code 1 should be counted once:\n%s", out)
	}
}

func TestHumanRendererEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatHuman).Render(&buf, model.NewReport("probes", nil)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No findings.") {
		t.Errorf("empty report output: %q", buf.String())
	}
}

func TestJSONRendererRoundTrip(t *testing.T) {
	report := testReport()

	var buf bytes.Buffer
	if err := New(FormatJSON).Render(&buf, report); err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(report, decoded); diff != "" {
		t.Errorf("report changed through JSON round trip (-want +got):\n%s", diff)
	}
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatCSV).Render(&buf, testReport()); err != nil {
		t.Fatalf("render: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "severity" {
		t.Errorf("header: %v", rows[0])
	}
	if rows[1][0] != "critical" || rows[1][1] != "exit-code-137" {
		t.Errorf("first row: %v", rows[1])
	}
	if rows[2][3] != "default" {
		t.Errorf("second row namespace: %v", rows[2])
	}
}

func TestRenderDeterministic(t *testing.T) {
	for _, format := range []Format{FormatHuman, FormatJSON, FormatCSV} {
		var a, b bytes.Buffer
		if err := New(format).Render(&a, testReport()); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if err := New(format).Render(&b, testReport()); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s renderer is not deterministic", format)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatHuman {
		t.Errorf("empty: got %v, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("unsupported format should error")
	}
}
