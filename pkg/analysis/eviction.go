package analysis

import (
	"fmt"
	"strings"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type EvictionRule struct{}

func (r *EvictionRule) Name() string { return "eviction-causes" }

func (r *EvictionRule) Evaluate(in Input) []model.Finding {
	var findings []model.Finding

	for _, rec := range in.Evictions {
		ref := model.RecordRef{
			Kind:      model.KindEviction,
			Namespace: rec.Namespace,
			Name:      rec.PodName,
		}

		if len(rec.NodePressureConditions) > 0 {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "node-pressure",
				Severity:      model.SeverityCritical,
				Message: fmt.Sprintf("pod %q was evicted while its node reports %s",
					rec.PodName, strings.Join(rec.NodePressureConditions, ", ")),
				Record: ref,
				NextSteps: []string{
					"kubectl describe node <node> | grep -A5 Conditions",
					"Free node resources or add capacity before rescheduling",
				},
			})
		}

		// The event-only records carry no pod spec; request, priority and
		// PDB checks would read zero values as facts.
		if !rec.SpecObserved {
			continue
		}

		if !rec.MemoryRequestPresent {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "missing-memory-request",
				Severity:      model.SeverityWarning,
				Message: fmt.Sprintf("pod %q has no memory request; BestEffort and Burstable pods are evicted first under pressure",
					rec.PodName),
				Record: ref,
				NextSteps: []string{
					"Set memory requests so the scheduler reserves capacity and the kubelet ranks the pod higher",
				},
			})
		}

		if rec.PriorityClassName == "" && hasUserPriorityClasses(in) {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "no-priority-class",
				Severity:      model.SeverityInfo,
				Message: fmt.Sprintf("pod %q has no priorityClassName although the cluster defines priority classes; it competes at default priority",
					rec.PodName),
				Record: ref,
			})
		}

		if !rec.PDBCoverage {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "no-pdb",
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("no PodDisruptionBudget covers pod %q", rec.PodName),
				Record:        ref,
				NextSteps: []string{
					fmt.Sprintf("kubectl get pdb -n %s", rec.Namespace),
					"Add a PDB so voluntary disruptions cannot drain the whole workload at once",
				},
			})
		}
	}

	return findings
}

func hasUserPriorityClasses(in Input) bool {
	if in.Snapshot == nil {
		return false
	}
	for _, pc := range in.Snapshot.PriorityClasses {
		// system-node-critical and friends exist on every cluster
		if !pc.GlobalDefault && !strings.HasPrefix(pc.Name, "system-") {
			return true
		}
	}
	return false
}
