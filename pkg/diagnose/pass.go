// Package diagnose sequences a diagnostic pass: authenticate, verify
// connectivity, gather, normalize, classify, report. Each pass shares the
// collector, normalizer, rule engine, and renderer, and differs only in
// which record kinds and rules it wires together.
package diagnose

import (
	"time"

	"github.com/marek-kar/gke-doctor/pkg/analysis"
	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
	"github.com/marek-kar/gke-doctor/pkg/normalize"
)

type Pass struct {
	Name        string
	Description string

	// Select sets the Need flags for the resource kinds this pass reads.
	Select func(opts collector.Options) collector.Options
	// Normalize converts the snapshot into rule input, returning any
	// data-shape findings produced along the way.
	Normalize func(snap *collector.Snapshot, now time.Time) (analysis.Input, []model.Finding)
	// Engine assembles the rule subset for this pass.
	Engine func(cfg analysis.Config) *analysis.Engine
	// Attach copies the pass's records onto the report.
	Attach func(report *model.Report, in analysis.Input)
}

var passes = []Pass{
	{
		Name:        "restarts",
		Description: "pod restart counts and last exit codes",
		Select: func(o collector.Options) collector.Options {
			o.NeedPods = true
			return o
		},
		Normalize: func(snap *collector.Snapshot, _ time.Time) (analysis.Input, []model.Finding) {
			return analysis.Input{Snapshot: snap, Restarts: normalize.RestartRecords(snap)}, nil
		},
		Engine: analysis.RestartEngine,
		Attach: func(r *model.Report, in analysis.Input) { r.Restarts = in.Restarts },
	},
	{
		Name:        "probes",
		Description: "liveness/readiness probe configuration and failures",
		Select: func(o collector.Options) collector.Options {
			o.NeedPods = true
			o.NeedEvents = true
			return o
		},
		Normalize: func(snap *collector.Snapshot, _ time.Time) (analysis.Input, []model.Finding) {
			return analysis.Input{Snapshot: snap, Probes: normalize.ProbeRecords(snap)}, nil
		},
		Engine: analysis.ProbeEngine,
		Attach: func(r *model.Report, in analysis.Input) { r.Probes = in.Probes },
	},
	{
		Name:        "shutdown",
		Description: "termination signals, grace periods, and preStop hooks",
		Select: func(o collector.Options) collector.Options {
			o.NeedPods = true
			return o
		},
		Normalize: func(snap *collector.Snapshot, _ time.Time) (analysis.Input, []model.Finding) {
			return analysis.Input{Snapshot: snap, Shutdowns: normalize.ShutdownRecords(snap)}, nil
		},
		Engine: analysis.ShutdownEngine,
		Attach: func(r *model.Report, in analysis.Input) { r.Shutdowns = in.Shutdowns },
	},
	{
		Name:        "evictions",
		Description: "eviction causes, node pressure, and disruption budgets",
		Select: func(o collector.Options) collector.Options {
			o.NeedPods = true
			o.NeedEvents = true
			o.NeedNodes = true
			o.NeedPolicies = true
			return o
		},
		Normalize: func(snap *collector.Snapshot, _ time.Time) (analysis.Input, []model.Finding) {
			return analysis.Input{Snapshot: snap, Evictions: normalize.EvictionRecords(snap)}, nil
		},
		Engine: analysis.EvictionEngine,
		Attach: func(r *model.Report, in analysis.Input) { r.Evictions = in.Evictions },
	},
	{
		Name:        "certs",
		Description: "TLS secret certificate expiry and key consistency",
		Select: func(o collector.Options) collector.Options {
			o.NeedPods = true
			o.NeedSecrets = true
			return o
		},
		Normalize: func(snap *collector.Snapshot, now time.Time) (analysis.Input, []model.Finding) {
			records, findings := normalize.CertificateRecords(snap, now)
			return analysis.Input{Snapshot: snap, Certificates: records}, findings
		},
		Engine: analysis.CertificateEngine,
		Attach: func(r *model.Report, in analysis.Input) { r.Certificates = in.Certificates },
	},
}

func Passes() []Pass {
	return passes
}

func Lookup(name string) (Pass, bool) {
	for _, p := range passes {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}
