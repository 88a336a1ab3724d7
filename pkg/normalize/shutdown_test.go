package normalize

import (
	"testing"

	corev1 "k8s.io/api/core/v1"

	"github.com/marek-kar/gke-doctor/pkg/collector"
)

func terminated(code int32) *collector.TerminationSnapshot {
	return &collector.TerminationSnapshot{ExitCode: code}
}

func TestShutdownRecordsFilterByExitCode(t *testing.T) {
	snap := snapWithPods(collector.PodSnapshot{
		Name: "app", Namespace: "default", Phase: corev1.PodRunning,
		TerminationGracePeriodSeconds: 30,
		Containers: []collector.ContainerSnapshot{
			{Name: "sigkill", RestartCount: 5, LastTerminated: terminated(137)},
			{Name: "sigterm", RestartCount: 1, LastTerminated: terminated(143), PreStopHookPresent: true},
			{Name: "error", RestartCount: 2, LastTerminated: terminated(1)},
			{Name: "clean", RestartCount: 1, LastTerminated: terminated(0)},
			{Name: "never-terminated"},
		},
	})

	records := ShutdownRecords(snap)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// sorted by container name: sigkill, sigterm
	if records[0].ContainerName != "sigkill" || records[0].ExitCode != 137 {
		t.Errorf("first record: %+v", records[0])
	}
	if records[0].TerminationGracePeriodSeconds != 30 {
		t.Errorf("grace period: got %d", records[0].TerminationGracePeriodSeconds)
	}
	if records[0].PreStopHookPresent {
		t.Error("sigkill container has no preStop hook")
	}
	if records[1].ContainerName != "sigterm" || !records[1].PreStopHookPresent {
		t.Errorf("second record: %+v", records[1])
	}
}
