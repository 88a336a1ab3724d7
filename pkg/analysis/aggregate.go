package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

// SigtermAggregateRule watches the SIGTERM count across a whole pass. A few
// graceful terminations are normal churn; many of them point at a cluster
// draining, flapping autoscaler, or aggressive liveness probes.
type SigtermAggregateRule struct {
	Config Config
}

func (r *SigtermAggregateRule) Name() string { return "sigterm-rate" }

func (r *SigtermAggregateRule) Evaluate(in Input) []model.Finding {
	seen := make(map[string]bool)

	for _, rec := range in.Restarts {
		if rec.LastExitCode == 143 {
			seen[rec.Namespace+"/"+rec.PodName+"/"+rec.ContainerName] = true
		}
	}
	for _, rec := range in.Shutdowns {
		if rec.ExitCode == 143 {
			seen[rec.Namespace+"/"+rec.PodName+"/"+rec.ContainerName] = true
		}
	}

	count := len(seen)
	if count <= r.Config.SigtermThreshold {
		return nil
	}

	return []model.Finding{
		{
			SchemaVersion: model.SchemaVersion,
			Code:          "high-sigterm-rate",
			Severity:      model.SeverityWarning,
			Message: fmt.Sprintf("%d container(s) last exited with SIGTERM (threshold %d); something is terminating workloads cluster-wide",
				count, r.Config.SigtermThreshold),
			Record: model.RecordRef{Kind: model.KindCluster},
			NextSteps: []string{
				"Run the shutdown diagnosis pass for per-container grace period and preStop analysis",
				"Check for node drains, autoscaler scale-downs, and rollout restarts in the window",
			},
		},
	}
}
