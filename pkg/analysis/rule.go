package analysis

import (
	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

// Input carries the normalized records of one pass. Only the slices the pass
// produces are populated; rules read what they need.
type Input struct {
	Snapshot     *collector.Snapshot
	Restarts     []model.ContainerRestartRecord
	Probes       []model.ProbeRecord
	Shutdowns    []model.ShutdownRecord
	Evictions    []model.EvictionRecord
	Certificates []model.CertificateRecord
}

type Rule interface {
	Name() string
	Evaluate(in Input) []model.Finding
}
