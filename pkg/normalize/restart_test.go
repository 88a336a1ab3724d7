package normalize

import (
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

func snapWithPods(pods ...collector.PodSnapshot) *collector.Snapshot {
	return &collector.Snapshot{
		SchemaVersion: collector.SnapshotSchemaVersion,
		Pods:          pods,
	}
}

func TestRestartRecordsFiltering(t *testing.T) {
	finished := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	snap := snapWithPods(
		collector.PodSnapshot{
			Name: "running-restarted", Namespace: "default", Phase: corev1.PodRunning,
			Containers: []collector.ContainerSnapshot{
				{
					Name: "app", Image: "app:1", RestartCount: 3,
					LastTerminated: &collector.TerminationSnapshot{
						ExitCode: 1, Reason: "Error", FinishedAt: finished,
					},
				},
			},
		},
		collector.PodSnapshot{
			Name: "running-clean", Namespace: "default", Phase: corev1.PodRunning,
			Containers: []collector.ContainerSnapshot{
				{Name: "app", RestartCount: 0},
			},
		},
		collector.PodSnapshot{
			Name: "succeeded-restarted", Namespace: "default", Phase: corev1.PodSucceeded,
			Containers: []collector.ContainerSnapshot{
				{Name: "app", RestartCount: 7},
			},
		},
		collector.PodSnapshot{
			Name: "failed-restarted", Namespace: "default", Phase: corev1.PodFailed,
			Containers: []collector.ContainerSnapshot{
				{Name: "app", RestartCount: 2},
			},
		},
	)

	records := RestartRecords(snap)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.PodName != "running-restarted" {
		t.Errorf("pod: got %q", r.PodName)
	}
	if r.LastExitCode != 1 || r.LastTerminationReason != "Error" {
		t.Errorf("termination: got code=%d reason=%q", r.LastExitCode, r.LastTerminationReason)
	}
	if r.LastFinishedAt != "2024-06-15T10:00:00Z" {
		t.Errorf("finishedAt: got %q", r.LastFinishedAt)
	}
}

func TestRestartRecordsSentinelsWithoutTermination(t *testing.T) {
	snap := snapWithPods(collector.PodSnapshot{
		Name: "web", Namespace: "default", Phase: corev1.PodRunning,
		Containers: []collector.ContainerSnapshot{
			{Name: "web", RestartCount: 2, LastTerminated: nil},
		},
	})

	records := RestartRecords(snap)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.LastExitCode != model.UnknownExitCode {
		t.Errorf("exit code must be the sentinel, not zero: got %d", r.LastExitCode)
	}
	if r.LastTerminationReason != model.Unknown {
		t.Errorf("reason: got %q, want %q", r.LastTerminationReason, model.Unknown)
	}
	if r.LastFinishedAt != model.NotAvailable {
		t.Errorf("finishedAt: got %q, want %q", r.LastFinishedAt, model.NotAvailable)
	}
}

func TestRestartRecordsDeterministicOrder(t *testing.T) {
	snap := snapWithPods(
		collector.PodSnapshot{
			Name: "zeta", Namespace: "b", Phase: corev1.PodRunning,
			Containers: []collector.ContainerSnapshot{{Name: "c", RestartCount: 1}},
		},
		collector.PodSnapshot{
			Name: "alpha", Namespace: "a", Phase: corev1.PodRunning,
			Containers: []collector.ContainerSnapshot{{Name: "c", RestartCount: 1}},
		},
	)

	records := RestartRecords(snap)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Namespace != "a" || records[1].Namespace != "b" {
		t.Errorf("records not sorted by namespace: %v, %v", records[0].Namespace, records[1].Namespace)
	}
}
