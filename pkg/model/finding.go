package model

import "sort"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// RecordRef points a finding back at the record that produced it. Cluster-wide
// findings (aggregates, data-shape errors with no record) use KindCluster and
// leave Namespace empty.
type RecordRef struct {
	Kind      RecordKind `json:"kind"`
	Namespace string     `json:"namespace,omitempty"`
	Name      string     `json:"name,omitempty"`
	Container string     `json:"container,omitempty"`
}

type Finding struct {
	SchemaVersion string    `json:"schemaVersion"`
	Code          string    `json:"code"`
	Severity      Severity  `json:"severity"`
	Message       string    `json:"message"`
	Record        RecordRef `json:"record"`
	NextSteps     []string  `json:"nextSteps,omitempty"`
}

type Report struct {
	SchemaVersion string                   `json:"schemaVersion"`
	Pass          string                   `json:"pass"`
	Restarts      []ContainerRestartRecord `json:"restarts,omitempty"`
	Probes        []ProbeRecord            `json:"probes,omitempty"`
	Shutdowns     []ShutdownRecord         `json:"shutdowns,omitempty"`
	Evictions     []EvictionRecord         `json:"evictions,omitempty"`
	Certificates  []CertificateRecord      `json:"certificates,omitempty"`
	Findings      []Finding                `json:"findings"`
}

func NewReport(pass string, findings []Finding) Report {
	return Report{
		SchemaVersion: SchemaVersion,
		Pass:          pass,
		Findings:      findings,
	}
}

var severityOrder = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityCritical: 2,
}

func SeverityRank(s Severity) int {
	return severityOrder[s]
}

// SortFindings orders findings by severity descending, then namespace, then
// record name, so identical input always renders identically.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri := SeverityRank(findings[i].Severity)
		rj := SeverityRank(findings[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if findings[i].Record.Namespace != findings[j].Record.Namespace {
			return findings[i].Record.Namespace < findings[j].Record.Namespace
		}
		if findings[i].Record.Name != findings[j].Record.Name {
			return findings[i].Record.Name < findings[j].Record.Name
		}
		return findings[i].Code < findings[j].Code
	})
}

// MaxSeverity reports the highest severity present, or SeverityInfo for an
// empty list.
func MaxSeverity(findings []Finding) Severity {
	max := SeverityInfo
	for _, f := range findings {
		if SeverityRank(f.Severity) > SeverityRank(max) {
			max = f.Severity
		}
	}
	return max
}
