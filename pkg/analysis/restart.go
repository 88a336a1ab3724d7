package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type RestartRule struct {
	Config Config
}

func (r *RestartRule) Name() string { return "restart-exit-codes" }

func (r *RestartRule) Evaluate(in Input) []model.Finding {
	var findings []model.Finding

	for _, rec := range in.Restarts {
		f := ClassifyExitCode(rec.LastExitCode)
		f.Record = model.RecordRef{
			Kind:      model.KindRestart,
			Namespace: rec.Namespace,
			Name:      rec.PodName,
			Container: rec.ContainerName,
		}
		f.Message = fmt.Sprintf("container %q restarted %d time(s); %s", rec.ContainerName, rec.RestartCount, f.Message)

		// A SIGTERM here and there is routine; a container cycling through
		// graceful shutdowns is not.
		if rec.LastExitCode == 143 && int(rec.RestartCount) > r.Config.SigtermThreshold {
			f.Severity = model.SeverityWarning
			f.Message += fmt.Sprintf(" (repeated %d times, above threshold %d)", rec.RestartCount, r.Config.SigtermThreshold)
		}

		f.NextSteps = restartNextSteps(rec)
		findings = append(findings, f)
	}

	return findings
}

func restartNextSteps(rec model.ContainerRestartRecord) []string {
	steps := []string{
		fmt.Sprintf("kubectl logs -n %s %s -c %s --previous", rec.Namespace, rec.PodName, rec.ContainerName),
		fmt.Sprintf("kubectl describe pod -n %s %s", rec.Namespace, rec.PodName),
	}
	if rec.LastExitCode == 137 {
		steps = append(steps,
			fmt.Sprintf("kubectl get events -n %s --field-selector involvedObject.name=%s", rec.Namespace, rec.PodName),
			"Review memory limits; 137 usually means the kernel or kubelet OOM-killed the container",
		)
	}
	return steps
}
