package normalize

import (
	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

const (
	ExitCodeSIGKILL = int32(137)
	ExitCodeSIGTERM = int32(143)
)

// ShutdownRecords builds a record for every container whose last termination
// was SIGKILL (137) or SIGTERM (143), regardless of pod phase.
func ShutdownRecords(snap *collector.Snapshot) []model.ShutdownRecord {
	var records []model.ShutdownRecord

	for _, pod := range snap.Pods {
		for _, c := range pod.Containers {
			t := c.LastTerminated
			if t == nil {
				continue
			}
			if t.ExitCode != ExitCodeSIGKILL && t.ExitCode != ExitCodeSIGTERM {
				continue
			}

			records = append(records, model.ShutdownRecord{
				Namespace:                     pod.Namespace,
				PodName:                       pod.Name,
				ContainerName:                 c.Name,
				ExitCode:                      t.ExitCode,
				RestartCount:                  c.RestartCount,
				TerminationGracePeriodSeconds: pod.TerminationGracePeriodSeconds,
				PreStopHookPresent:            c.PreStopHookPresent,
			})
		}
	}

	sortByPodContainer(records, func(r model.ShutdownRecord) (string, string, string) {
		return r.Namespace, r.PodName, r.ContainerName
	})
	return records
}
