package analysis

import (
	"strings"
	"testing"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

func TestShutdownRuleForcedKillWithoutPreStop(t *testing.T) {
	rule := &ShutdownRule{Config: DefaultConfig()}

	in := Input{Shutdowns: []model.ShutdownRecord{
		{
			Namespace: "payments", PodName: "api-7f9c5", ContainerName: "api",
			ExitCode: 137, RestartCount: 5,
			TerminationGracePeriodSeconds: 30,
			PreStopHookPresent:            false,
		},
	}}

	findings := rule.Evaluate(in)
	var critical *model.Finding
	for i := range findings {
		if findings[i].Code == "no-prestop-sigkill" {
			critical = &findings[i]
		}
	}
	if critical == nil {
		t.Fatal("expected a no-prestop-sigkill finding")
	}
	if critical.Severity != model.SeverityCritical {
		t.Errorf("severity: got %q, want critical", critical.Severity)
	}
	if !strings.Contains(critical.Message, "forced-kill") {
		t.Errorf("message should reference the forced kill: %q", critical.Message)
	}
	if !strings.Contains(critical.Message, "preStop") {
		t.Errorf("message should reference the missing preStop hook: %q", critical.Message)
	}
}

func TestShutdownRulePreStopSuppressesCritical(t *testing.T) {
	rule := &ShutdownRule{Config: DefaultConfig()}

	in := Input{Shutdowns: []model.ShutdownRecord{
		{
			Namespace: "a", PodName: "p", ContainerName: "c",
			ExitCode:                      137,
			TerminationGracePeriodSeconds: 60,
			PreStopHookPresent:            true,
		},
	}}

	for _, f := range rule.Evaluate(in) {
		if f.Code == "no-prestop-sigkill" {
			t.Errorf("preStop hook present, finding should not fire: %+v", f)
		}
	}
}

func TestShutdownRuleShortGracePeriod(t *testing.T) {
	rule := &ShutdownRule{Config: DefaultConfig()}

	in := Input{Shutdowns: []model.ShutdownRecord{
		{
			Namespace: "a", PodName: "fast", ContainerName: "c",
			ExitCode:                      143,
			TerminationGracePeriodSeconds: 5,
			PreStopHookPresent:            true,
		},
		{
			Namespace: "a", PodName: "normal", ContainerName: "c",
			ExitCode:                      143,
			TerminationGracePeriodSeconds: 30,
			PreStopHookPresent:            true,
		},
	}}

	findings := rule.Evaluate(in)
	var short []model.Finding
	for _, f := range findings {
		if f.Code == "grace-period-short" {
			short = append(short, f)
		}
	}
	if len(short) != 1 {
		t.Fatalf("expected 1 short-grace finding, got %d", len(short))
	}
	if short[0].Record.Name != "fast" {
		t.Errorf("wrong record: %+v", short[0].Record)
	}
	if short[0].Severity != model.SeverityInfo {
		t.Errorf("severity: got %q, want info", short[0].Severity)
	}
}

func TestSigtermAggregateThreshold(t *testing.T) {
	rule := &SigtermAggregateRule{Config: DefaultConfig()}

	records := func(n int) []model.ShutdownRecord {
		var out []model.ShutdownRecord
		for i := 0; i < n; i++ {
			out = append(out, model.ShutdownRecord{
				Namespace: "a", PodName: "p", ContainerName: string(rune('a' + i)),
				ExitCode: 143,
			})
		}
		return out
	}

	if got := rule.Evaluate(Input{Shutdowns: records(3)}); len(got) != 0 {
		t.Errorf("exactly 3 SIGTERMs must not fire (threshold is >3), got %d findings", len(got))
	}

	findings := rule.Evaluate(Input{Shutdowns: records(4)})
	if len(findings) != 1 {
		t.Fatalf("4 SIGTERMs must fire, got %d findings", len(findings))
	}
	if findings[0].Code != "high-sigterm-rate" {
		t.Errorf("code: got %q", findings[0].Code)
	}
	if findings[0].Record.Kind != model.KindCluster {
		t.Errorf("aggregate finding should be cluster-scoped: %+v", findings[0].Record)
	}
}

func TestSigtermAggregateDeduplicatesAcrossRecordKinds(t *testing.T) {
	rule := &SigtermAggregateRule{Config: Config{SigtermThreshold: 1}}

	in := Input{
		Restarts: []model.ContainerRestartRecord{
			{Namespace: "a", PodName: "p", ContainerName: "c", LastExitCode: 143},
		},
		Shutdowns: []model.ShutdownRecord{
			{Namespace: "a", PodName: "p", ContainerName: "c", ExitCode: 143},
		},
	}

	if got := rule.Evaluate(in); len(got) != 0 {
		t.Errorf("same container in both record kinds counts once; got %d findings", len(got))
	}
}
