package model

import "time"

const SchemaVersion = "v1"

// Sentinels for fields the API did not report. A missing exit code must not
// collapse to 0, which is a real (successful) exit code.
const (
	Unknown         = "Unknown"
	NotAvailable    = "N/A"
	UnknownExitCode = int32(-1)
)

type RecordKind string

const (
	KindRestart     RecordKind = "restart"
	KindProbe       RecordKind = "probe"
	KindShutdown    RecordKind = "shutdown"
	KindEviction    RecordKind = "eviction"
	KindCertificate RecordKind = "certificate"
	KindCluster     RecordKind = "cluster"
)

// ContainerRestartRecord is a point-in-time snapshot of a container that has
// restarted at least once while its pod is Running.
type ContainerRestartRecord struct {
	Namespace             string `json:"namespace"`
	PodName               string `json:"podName"`
	ContainerName         string `json:"containerName"`
	Image                 string `json:"image"`
	RestartCount          int32  `json:"restartCount"`
	LastExitCode          int32  `json:"lastExitCode"`
	LastTerminationReason string `json:"lastTerminationReason"`
	LastFinishedAt        string `json:"lastFinishedAt"`
}

// ProbeSpec describes one configured probe. Absence of a probe is recorded by
// a nil pointer in ProbeRecord, not a zero-valued ProbeSpec.
type ProbeSpec struct {
	Type                string `json:"type"`
	Path                string `json:"path,omitempty"`
	Port                string `json:"port,omitempty"`
	InitialDelaySeconds int32  `json:"initialDelaySeconds"`
	PeriodSeconds       int32  `json:"periodSeconds"`
	TimeoutSeconds      int32  `json:"timeoutSeconds"`
	FailureThreshold    int32  `json:"failureThreshold"`
}

type ProbeEvent struct {
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Count    int32  `json:"count"`
	LastSeen string `json:"lastSeen"`
}

type ProbeRecord struct {
	Namespace         string       `json:"namespace"`
	PodName           string       `json:"podName"`
	ContainerName     string       `json:"containerName"`
	LivenessProbe     *ProbeSpec   `json:"livenessProbe,omitempty"`
	ReadinessProbe    *ProbeSpec   `json:"readinessProbe,omitempty"`
	StartupProbe      *ProbeSpec   `json:"startupProbe,omitempty"`
	RecentProbeEvents []ProbeEvent `json:"recentProbeEvents,omitempty"`
}

// ShutdownRecord captures a container whose last termination was SIGKILL
// (137) or SIGTERM (143).
type ShutdownRecord struct {
	Namespace                     string `json:"namespace"`
	PodName                       string `json:"podName"`
	ContainerName                 string `json:"containerName"`
	ExitCode                      int32  `json:"exitCode"`
	RestartCount                  int32  `json:"restartCount"`
	TerminationGracePeriodSeconds int64  `json:"terminationGracePeriodSeconds"`
	PreStopHookPresent            bool   `json:"preStopHookPresent"`
}

type EvictionRecord struct {
	Namespace               string   `json:"namespace"`
	PodName                 string   `json:"podName"`
	Reason                  string   `json:"reason"`
	Message                 string   `json:"message"`
	NodePressureConditions  []string `json:"nodePressureConditions,omitempty"`
	ResourceRequestsPresent bool     `json:"resourceRequestsPresent"`
	MemoryRequestPresent    bool     `json:"memoryRequestPresent"`
	PriorityClassName       string   `json:"priorityClassName,omitempty"`
	PDBCoverage             bool     `json:"pdbCoverage"`

	// SpecObserved is false for records rebuilt from eviction events after
	// the pod was deleted. The request, priority and PDB fields hold zero
	// values then, not facts about the pod.
	SpecObserved bool `json:"specObserved"`
}

// CertificateRecord is extracted from one certificate field of a TLS secret.
// DaysUntilExpiry is signed: negative means the certificate already expired.
type CertificateRecord struct {
	SecretName           string    `json:"secretName"`
	Namespace            string    `json:"namespace"`
	CertificateField     string    `json:"certificateField"`
	Subject              string    `json:"subject"`
	Issuer               string    `json:"issuer"`
	NotBefore            time.Time `json:"notBefore"`
	NotAfter             time.Time `json:"notAfter"`
	DaysUntilExpiry      int       `json:"daysUntilExpiry"`
	IsSelfSigned         bool      `json:"isSelfSigned"`
	KeyMatchesCert       *bool     `json:"keyMatchesCert,omitempty"`
	ReferencingWorkloads []string  `json:"referencingWorkloads,omitempty"`
}
