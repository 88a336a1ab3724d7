package normalize

import (
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

const evictedReason = "Evicted"

// EvictionRecords builds records from evicted pods still visible in the API,
// plus eviction events whose pod is already gone. The latter resolve pod
// details to sentinels.
func EvictionRecords(snap *collector.Snapshot) []model.EvictionRecord {
	var records []model.EvictionRecord
	seen := make(map[string]bool)

	for _, pod := range snap.Pods {
		if pod.Reason != evictedReason {
			continue
		}
		seen[pod.Namespace+"/"+pod.Name] = true

		rec := model.EvictionRecord{
			Namespace:               pod.Namespace,
			PodName:                 pod.Name,
			Reason:                  pod.Reason,
			Message:                 pod.Message,
			NodePressureConditions:  pressureConditionsFor(snap.Nodes, pod.NodeName),
			ResourceRequestsPresent: allHaveRequests(pod.Containers),
			MemoryRequestPresent:    allHaveMemoryRequests(pod.Containers),
			PriorityClassName:       pod.PriorityClassName,
			PDBCoverage:             pdbCovers(snap.PDBs, pod),
			SpecObserved:            true,
		}
		if rec.Message == "" {
			rec.Message = model.NotAvailable
		}
		records = append(records, rec)
	}

	for _, ev := range snap.Events {
		if ev.Reason != evictedReason || !strings.HasPrefix(ev.InvolvedObject, "Pod/") {
			continue
		}
		key := ev.Namespace + "/" + podNameFromRef(ev.InvolvedObject)
		if seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, model.EvictionRecord{
			Namespace: ev.Namespace,
			PodName:   podNameFromRef(ev.InvolvedObject),
			Reason:    ev.Reason,
			Message:   ev.Message,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Namespace != records[j].Namespace {
			return records[i].Namespace < records[j].Namespace
		}
		return records[i].PodName < records[j].PodName
	})
	return records
}

func podNameFromRef(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func pressureConditionsFor(nodes []collector.NodeSnapshot, nodeName string) []string {
	var conditions []string
	for _, n := range nodes {
		if n.Name != nodeName {
			continue
		}
		for _, cond := range n.Conditions {
			if strings.Contains(string(cond.Type), "Pressure") && cond.Status == corev1.ConditionTrue {
				conditions = append(conditions, string(cond.Type))
			}
		}
	}
	sort.Strings(conditions)
	return conditions
}

func allHaveRequests(containers []collector.ContainerSnapshot) bool {
	for _, c := range containers {
		if !c.MemoryRequestPresent && !c.CPURequestPresent {
			return false
		}
	}
	return len(containers) > 0
}

func allHaveMemoryRequests(containers []collector.ContainerSnapshot) bool {
	for _, c := range containers {
		if !c.MemoryRequestPresent {
			return false
		}
	}
	return len(containers) > 0
}

func pdbCovers(pdbs []collector.PDBSnapshot, pod collector.PodSnapshot) bool {
	for _, pdb := range pdbs {
		if pdb.Namespace != pod.Namespace || len(pdb.MatchLabels) == 0 {
			continue
		}
		match := true
		for k, v := range pdb.MatchLabels {
			if pod.Labels[k] != v {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
