package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type ProbeRule struct{}

func (r *ProbeRule) Name() string { return "probe-configuration" }

func (r *ProbeRule) Evaluate(in Input) []model.Finding {
	var findings []model.Finding

	for _, rec := range in.Probes {
		ref := model.RecordRef{
			Kind:      model.KindProbe,
			Namespace: rec.Namespace,
			Name:      rec.PodName,
			Container: rec.ContainerName,
		}

		if sharedProbePath(rec) {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "probe-shared-path",
				Severity:      model.SeverityWarning,
				Message: fmt.Sprintf("container %q uses the same HTTP path %q for liveness and readiness; a dependency outage will restart the container instead of just unrouting it",
					rec.ContainerName, rec.LivenessProbe.Path),
				Record: ref,
				NextSteps: []string{
					"Give the liveness probe a path that checks only process health",
					"Keep dependency checks in the readiness probe",
				},
			})
		}

		if rec.LivenessProbe == nil && rec.ReadinessProbe == nil {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "probe-missing",
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("container %q has neither a liveness nor a readiness probe", rec.ContainerName),
				Record:        ref,
				NextSteps: []string{
					fmt.Sprintf("kubectl get pod -n %s %s -o yaml", rec.Namespace, rec.PodName),
					"Add a readiness probe so traffic is withheld until the container can serve",
				},
			})
		}

		if n := probeFailureCount(rec); n > 0 {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "probe-failing",
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("pod %q has %d recent probe failure event(s)", rec.PodName, n),
				Record:        ref,
				NextSteps: []string{
					fmt.Sprintf("kubectl describe pod -n %s %s", rec.Namespace, rec.PodName),
				},
			})
		}
	}

	return findings
}

// sharedProbePath reports the liveness/readiness same-HTTP-path anti-pattern.
// One finding per container, never one per probe.
func sharedProbePath(rec model.ProbeRecord) bool {
	l, r := rec.LivenessProbe, rec.ReadinessProbe
	if l == nil || r == nil {
		return false
	}
	if l.Type != "httpGet" || r.Type != "httpGet" {
		return false
	}
	return l.Path != "" && l.Path == r.Path
}

func probeFailureCount(rec model.ProbeRecord) int {
	total := 0
	for _, ev := range rec.RecentProbeEvents {
		n := int(ev.Count)
		if n <= 0 {
			n = 1
		}
		total += n
	}
	return total
}
