package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type ShutdownRule struct {
	Config Config
}

func (r *ShutdownRule) Name() string { return "shutdown-behavior" }

func (r *ShutdownRule) Evaluate(in Input) []model.Finding {
	var findings []model.Finding

	for _, rec := range in.Shutdowns {
		ref := model.RecordRef{
			Kind:      model.KindShutdown,
			Namespace: rec.Namespace,
			Name:      rec.PodName,
			Container: rec.ContainerName,
		}

		if rec.ExitCode == 137 && !rec.PreStopHookPresent {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "no-prestop-sigkill",
				Severity:      model.SeverityCritical,
				Message: fmt.Sprintf("container %q was forced-killed (exit 137) and has no preStop hook; in-flight work is being cut off at termination",
					rec.ContainerName),
				Record: ref,
				NextSteps: []string{
					"Add a preStop hook that drains connections before the SIGTERM deadline",
					fmt.Sprintf("kubectl get pod -n %s %s -o jsonpath='{.spec.terminationGracePeriodSeconds}'", rec.Namespace, rec.PodName),
					"Confirm the process handles SIGTERM instead of relying on the grace timeout",
				},
			})
		}

		if rec.TerminationGracePeriodSeconds < r.Config.ShortGraceSeconds {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "grace-period-short",
				Severity:      model.SeverityInfo,
				Message: fmt.Sprintf("pod %q allows only %ds to shut down (below %ds)",
					rec.PodName, rec.TerminationGracePeriodSeconds, r.Config.ShortGraceSeconds),
				Record: ref,
			})
		}
	}

	return findings
}
