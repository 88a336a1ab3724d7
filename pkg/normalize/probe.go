package normalize

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

var probeFailureReasons = []string{
	"Unhealthy",
	"ProbeWarning",
}

// ProbeRecords builds one record per container of every Running pod.
// Containers without probes still get a record: absence is a finding.
func ProbeRecords(snap *collector.Snapshot) []model.ProbeRecord {
	var records []model.ProbeRecord

	for _, pod := range snap.Pods {
		if pod.Phase != corev1.PodRunning {
			continue
		}
		podEvents := probeEventsFor(snap.Events, pod.Namespace, pod.Name)

		for _, c := range pod.Containers {
			records = append(records, model.ProbeRecord{
				Namespace:         pod.Namespace,
				PodName:           pod.Name,
				ContainerName:     c.Name,
				LivenessProbe:     toProbeSpec(c.LivenessProbe),
				ReadinessProbe:    toProbeSpec(c.ReadinessProbe),
				StartupProbe:      toProbeSpec(c.StartupProbe),
				RecentProbeEvents: podEvents,
			})
		}
	}

	sortByPodContainer(records, func(r model.ProbeRecord) (string, string, string) {
		return r.Namespace, r.PodName, r.ContainerName
	})
	return records
}

func toProbeSpec(p *corev1.Probe) *model.ProbeSpec {
	if p == nil {
		return nil
	}

	spec := &model.ProbeSpec{
		Type:                model.Unknown,
		InitialDelaySeconds: p.InitialDelaySeconds,
		PeriodSeconds:       p.PeriodSeconds,
		TimeoutSeconds:      p.TimeoutSeconds,
		FailureThreshold:    p.FailureThreshold,
	}

	switch {
	case p.HTTPGet != nil:
		spec.Type = "httpGet"
		spec.Path = p.HTTPGet.Path
		spec.Port = p.HTTPGet.Port.String()
	case p.TCPSocket != nil:
		spec.Type = "tcpSocket"
		spec.Port = p.TCPSocket.Port.String()
	case p.Exec != nil:
		spec.Type = "exec"
	case p.GRPC != nil:
		spec.Type = "grpc"
		spec.Port = fmt.Sprintf("%d", p.GRPC.Port)
	}
	return spec
}

func probeEventsFor(events []collector.EventSnapshot, namespace, name string) []model.ProbeEvent {
	ref := fmt.Sprintf("Pod/%s/%s", namespace, name)

	var matched []model.ProbeEvent
	for _, ev := range events {
		if ev.InvolvedObject != ref {
			continue
		}
		if !isProbeFailureReason(ev.Reason) {
			continue
		}
		matched = append(matched, model.ProbeEvent{
			Reason:   ev.Reason,
			Message:  ev.Message,
			Count:    ev.Count,
			LastSeen: ev.LastTimestamp.UTC().Format(time.RFC3339),
		})
	}
	return matched
}

func isProbeFailureReason(reason string) bool {
	for _, r := range probeFailureReasons {
		if reason == r {
			return true
		}
	}
	return false
}
