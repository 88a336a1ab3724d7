package diagnose

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/marek-kar/gke-doctor/pkg/analysis"
	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

type Phase string

const (
	PhaseAuthenticate       Phase = "authenticate"
	PhaseSetContext         Phase = "set-context"
	PhaseVerifyConnectivity Phase = "verify-connectivity"
	PhaseGather             Phase = "gather"
	PhaseNormalize          Phase = "normalize"
	PhaseClassify           Phase = "classify"
	PhaseReport             Phase = "report"
	PhaseSummarize          Phase = "summarize"
)

// ProgressFunc is invoked at every phase boundary. It carries no data the
// pass depends on; a nil func is a no-op.
type ProgressFunc func(pass string, phase Phase)

// ConfigSource yields a configured API client context (the Authenticate and
// SetContext phases). Implementations wrap GKE credentials or a kubeconfig.
type ConfigSource func(ctx context.Context) (*rest.Config, error)

type Orchestrator struct {
	Config   analysis.Config
	Logger   zerolog.Logger
	Progress ProgressFunc
	// Now is injectable so identical snapshots classify identically in tests.
	Now func() time.Time
	// AllowInsecureRetry permits exactly one relaxed-trust retry after a TLS
	// trust failure. Off unless the caller opted in.
	AllowInsecureRetry bool
}

// Result distinguishes "gathered, zero findings" from "could not gather":
// the latter never reaches a Result, it returns as an error from Run.
type Result struct {
	Report          model.Report
	MaxSeverity     model.Severity
	SuggestedPasses []string
	TrustRelaxed    bool
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

func (o *Orchestrator) progress(pass string, phase Phase) {
	if o.Progress != nil {
		o.Progress(pass, phase)
	}
	o.Logger.Debug().Str("pass", pass).Str("phase", string(phase)).Msg("phase")
}

// Run executes the full state machine for one pass.
func (o *Orchestrator) Run(ctx context.Context, source ConfigSource, pass Pass, opts collector.Options) (*Result, error) {
	o.progress(pass.Name, PhaseAuthenticate)
	config, err := source(ctx)
	if err != nil {
		return nil, err
	}

	o.progress(pass.Name, PhaseSetContext)
	client, err := collector.NewClient(config)
	if err != nil {
		return nil, err
	}

	o.progress(pass.Name, PhaseVerifyConnectivity)
	trustRelaxed := false
	if err := collector.VerifyConnectivity(ctx, client); err != nil {
		if !collector.IsTLSTrustFailure(err) || !o.AllowInsecureRetry {
			return nil, err
		}
		o.Logger.Warn().Str("pass", pass.Name).Msg("TLS trust failure; retrying once with server verification disabled")
		client, err = collector.NewClient(collector.RelaxTrust(config))
		if err != nil {
			return nil, err
		}
		if err := collector.VerifyConnectivity(ctx, client); err != nil {
			return nil, err
		}
		trustRelaxed = true
	}

	result, err := o.RunWithClient(ctx, client, pass, opts)
	if err != nil {
		return nil, err
	}
	result.TrustRelaxed = trustRelaxed
	return result, nil
}

// RunWithClient runs the gather-through-summarize phases against an already
// verified client.
func (o *Orchestrator) RunWithClient(ctx context.Context, client kubernetes.Interface, pass Pass, opts collector.Options) (*Result, error) {
	o.progress(pass.Name, PhaseGather)
	snap, err := collector.Collect(ctx, client, pass.Select(opts))
	if err != nil {
		return nil, err
	}

	o.progress(pass.Name, PhaseNormalize)
	in, shapeFindings := pass.Normalize(snap, o.now())

	o.progress(pass.Name, PhaseClassify)
	findings := pass.Engine(o.Config).Analyze(in)
	if len(shapeFindings) > 0 {
		findings = append(findings, shapeFindings...)
		model.SortFindings(findings)
	}

	o.progress(pass.Name, PhaseReport)
	report := model.NewReport(pass.Name, findings)
	pass.Attach(&report, in)

	o.progress(pass.Name, PhaseSummarize)
	result := &Result{
		Report:          report,
		MaxSeverity:     model.MaxSeverity(findings),
		SuggestedPasses: SuggestPasses(pass.Name, findings),
	}

	o.Logger.Info().
		Str("pass", pass.Name).
		Int("findings", len(findings)).
		Str("maxSeverity", string(result.MaxSeverity)).
		Msg("pass complete")

	return result, nil
}
