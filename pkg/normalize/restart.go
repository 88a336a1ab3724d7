// Package normalize converts collector snapshots into the domain record
// model. Missing optional fields resolve to explicit sentinels; downstream
// code never re-derives data from raw API objects.
package normalize

import (
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

// RestartRecords builds one record per container that has restarted while
// its pod is Running. Pods in any other phase are out of scope for the
// restart pass even if they restarted earlier.
func RestartRecords(snap *collector.Snapshot) []model.ContainerRestartRecord {
	var records []model.ContainerRestartRecord

	for _, pod := range snap.Pods {
		if pod.Phase != corev1.PodRunning {
			continue
		}
		for _, c := range pod.Containers {
			if c.RestartCount <= 0 {
				continue
			}

			rec := model.ContainerRestartRecord{
				Namespace:             pod.Namespace,
				PodName:               pod.Name,
				ContainerName:         c.Name,
				Image:                 c.Image,
				RestartCount:          c.RestartCount,
				LastExitCode:          model.UnknownExitCode,
				LastTerminationReason: model.Unknown,
				LastFinishedAt:        model.NotAvailable,
			}
			if t := c.LastTerminated; t != nil {
				rec.LastExitCode = t.ExitCode
				if t.Reason != "" {
					rec.LastTerminationReason = t.Reason
				}
				if !t.FinishedAt.IsZero() {
					rec.LastFinishedAt = t.FinishedAt.UTC().Format(time.RFC3339)
				}
			}
			records = append(records, rec)
		}
	}

	sortByPodContainer(records, func(r model.ContainerRestartRecord) (string, string, string) {
		return r.Namespace, r.PodName, r.ContainerName
	})
	return records
}

func sortByPodContainer[T any](records []T, key func(T) (string, string, string)) {
	sort.SliceStable(records, func(i, j int) bool {
		ni, pi, ci := key(records[i])
		nj, pj, cj := key(records[j])
		if ni != nj {
			return ni < nj
		}
		if pi != pj {
			return pi < pj
		}
		return ci < cj
	})
}
