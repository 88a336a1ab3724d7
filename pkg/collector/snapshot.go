package collector

import (
	"time"

	corev1 "k8s.io/api/core/v1"
)

const SnapshotSchemaVersion = "v1"

// Snapshot is a point-in-time view of the cluster resources a diagnostic
// pass needs. Slices stay nil for kinds the pass did not request.
type Snapshot struct {
	SchemaVersion   string                  `json:"schemaVersion"`
	CollectedAt     time.Time               `json:"collectedAt"`
	Namespace       string                  `json:"namespace"`
	Pods            []PodSnapshot           `json:"pods,omitempty"`
	Events          []EventSnapshot         `json:"events,omitempty"`
	Nodes           []NodeSnapshot          `json:"nodes,omitempty"`
	Secrets         []SecretSnapshot        `json:"secrets,omitempty"`
	PriorityClasses []PriorityClassSnapshot `json:"priorityClasses,omitempty"`
	PDBs            []PDBSnapshot           `json:"pdbs,omitempty"`
}

type PodSnapshot struct {
	Name                          string              `json:"name"`
	Namespace                     string              `json:"namespace"`
	Phase                         corev1.PodPhase     `json:"phase"`
	Reason                        string              `json:"reason,omitempty"`
	Message                       string              `json:"message,omitempty"`
	NodeName                      string              `json:"nodeName"`
	Labels                        map[string]string   `json:"labels,omitempty"`
	PriorityClassName             string              `json:"priorityClassName,omitempty"`
	TerminationGracePeriodSeconds int64               `json:"terminationGracePeriodSeconds"`
	SecretVolumes                 []string            `json:"secretVolumes,omitempty"`
	Containers                    []ContainerSnapshot `json:"containers"`
}

type ContainerSnapshot struct {
	Name                 string               `json:"name"`
	Image                string               `json:"image"`
	Ready                bool                 `json:"ready"`
	RestartCount         int32                `json:"restartCount"`
	LastTerminated       *TerminationSnapshot `json:"lastTerminated,omitempty"`
	LivenessProbe        *corev1.Probe        `json:"livenessProbe,omitempty"`
	ReadinessProbe       *corev1.Probe        `json:"readinessProbe,omitempty"`
	StartupProbe         *corev1.Probe        `json:"startupProbe,omitempty"`
	PreStopHookPresent   bool                 `json:"preStopHookPresent"`
	MemoryRequestPresent bool                 `json:"memoryRequestPresent"`
	CPURequestPresent    bool                 `json:"cpuRequestPresent"`
}

type TerminationSnapshot struct {
	ExitCode   int32     `json:"exitCode"`
	Reason     string    `json:"reason"`
	FinishedAt time.Time `json:"finishedAt"`
}

type EventSnapshot struct {
	Namespace      string    `json:"namespace"`
	Name           string    `json:"name"`
	Reason         string    `json:"reason"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	InvolvedObject string    `json:"involvedObject"`
	Count          int32     `json:"count"`
	FirstTimestamp time.Time `json:"firstTimestamp"`
	LastTimestamp  time.Time `json:"lastTimestamp"`
}

type NodeSnapshot struct {
	Name          string                 `json:"name"`
	Conditions    []corev1.NodeCondition `json:"conditions"`
	Unschedulable bool                   `json:"unschedulable"`
}

type SecretSnapshot struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Type      corev1.SecretType `json:"type"`
	Data      map[string][]byte `json:"data,omitempty"`
}

type PriorityClassSnapshot struct {
	Name          string `json:"name"`
	Value         int32  `json:"value"`
	GlobalDefault bool   `json:"globalDefault"`
}

type PDBSnapshot struct {
	Name           string            `json:"name"`
	Namespace      string            `json:"namespace"`
	MatchLabels    map[string]string `json:"matchLabels,omitempty"`
	MinAvailable   string            `json:"minAvailable,omitempty"`
	MaxUnavailable string            `json:"maxUnavailable,omitempty"`
}
