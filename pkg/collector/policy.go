package collector

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

func collectPriorityClasses(ctx context.Context, client kubernetes.Interface) ([]PriorityClassSnapshot, error) {
	list, err := client.SchedulingV1().PriorityClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyAPIError("list priorityclasses", err)
	}

	pcs := make([]PriorityClassSnapshot, 0, len(list.Items))
	for _, pc := range list.Items {
		pcs = append(pcs, PriorityClassSnapshot{
			Name:          pc.Name,
			Value:         pc.Value,
			GlobalDefault: pc.GlobalDefault,
		})
	}
	return pcs, nil
}

func collectPDBs(ctx context.Context, client kubernetes.Interface, namespace string) ([]PDBSnapshot, error) {
	list, err := client.PolicyV1().PodDisruptionBudgets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyAPIError("list poddisruptionbudgets", err)
	}

	pdbs := make([]PDBSnapshot, 0, len(list.Items))
	for _, pdb := range list.Items {
		snap := PDBSnapshot{
			Name:      pdb.Name,
			Namespace: pdb.Namespace,
		}
		if pdb.Spec.Selector != nil {
			snap.MatchLabels = pdb.Spec.Selector.MatchLabels
		}
		if pdb.Spec.MinAvailable != nil {
			snap.MinAvailable = pdb.Spec.MinAvailable.String()
		}
		if pdb.Spec.MaxUnavailable != nil {
			snap.MaxUnavailable = pdb.Spec.MaxUnavailable.String()
		}
		pdbs = append(pdbs, snap)
	}
	return pdbs, nil
}
