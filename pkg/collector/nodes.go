package collector

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

func collectNodes(ctx context.Context, client kubernetes.Interface) ([]NodeSnapshot, error) {
	list, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyAPIError("list nodes", err)
	}

	nodes := make([]NodeSnapshot, 0, len(list.Items))
	for _, n := range list.Items {
		nodes = append(nodes, NodeSnapshot{
			Name:          n.Name,
			Conditions:    n.Status.Conditions,
			Unschedulable: n.Spec.Unschedulable,
		})
	}
	return nodes, nil
}
