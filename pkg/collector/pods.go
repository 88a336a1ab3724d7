package collector

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Kubernetes default when the pod spec leaves the grace period unset.
const defaultGracePeriodSeconds = 30

func collectPods(ctx context.Context, client kubernetes.Interface, namespace string) ([]PodSnapshot, error) {
	list, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyAPIError("list pods", err)
	}

	pods := make([]PodSnapshot, 0, len(list.Items))
	for _, p := range list.Items {
		grace := int64(defaultGracePeriodSeconds)
		if p.Spec.TerminationGracePeriodSeconds != nil {
			grace = *p.Spec.TerminationGracePeriodSeconds
		}

		statusByName := make(map[string]corev1.ContainerStatus, len(p.Status.ContainerStatuses))
		for _, cs := range p.Status.ContainerStatuses {
			statusByName[cs.Name] = cs
		}

		containers := make([]ContainerSnapshot, 0, len(p.Spec.Containers))
		for _, c := range p.Spec.Containers {
			cs := ContainerSnapshot{
				Name:               c.Name,
				Image:              c.Image,
				LivenessProbe:      c.LivenessProbe,
				ReadinessProbe:     c.ReadinessProbe,
				StartupProbe:       c.StartupProbe,
				PreStopHookPresent: c.Lifecycle != nil && c.Lifecycle.PreStop != nil,
			}
			if _, ok := c.Resources.Requests[corev1.ResourceMemory]; ok {
				cs.MemoryRequestPresent = true
			}
			if _, ok := c.Resources.Requests[corev1.ResourceCPU]; ok {
				cs.CPURequestPresent = true
			}
			if status, ok := statusByName[c.Name]; ok {
				cs.Ready = status.Ready
				cs.RestartCount = status.RestartCount
				if t := status.LastTerminationState.Terminated; t != nil {
					cs.LastTerminated = &TerminationSnapshot{
						ExitCode:   t.ExitCode,
						Reason:     t.Reason,
						FinishedAt: t.FinishedAt.Time,
					}
				}
			}
			containers = append(containers, cs)
		}

		var secretVolumes []string
		for _, v := range p.Spec.Volumes {
			if v.Secret != nil {
				secretVolumes = append(secretVolumes, v.Secret.SecretName)
			}
		}

		pods = append(pods, PodSnapshot{
			Name:                          p.Name,
			Namespace:                     p.Namespace,
			Phase:                         p.Status.Phase,
			Reason:                        p.Status.Reason,
			Message:                       p.Status.Message,
			NodeName:                      p.Spec.NodeName,
			Labels:                        p.Labels,
			PriorityClassName:             p.Spec.PriorityClassName,
			TerminationGracePeriodSeconds: grace,
			SecretVolumes:                 secretVolumes,
			Containers:                    containers,
		})
	}
	return pods, nil
}
