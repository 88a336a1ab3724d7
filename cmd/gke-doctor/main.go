package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/client-go/rest"

	"github.com/marek-kar/gke-doctor/pkg/analysis"
	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/diagnose"
	"github.com/marek-kar/gke-doctor/pkg/model"
	"github.com/marek-kar/gke-doctor/pkg/render"
)

const envPrefix = "GKEDOC"

// newViper binds GKEDOC_* environment overrides. Hyphenated keys map to
// underscored env names, so sigterm-threshold reads GKEDOC_SIGTERM_THRESHOLD.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("sigterm-threshold", analysis.DefaultSigtermThreshold)
	v.SetDefault("expiry-warn-days", analysis.DefaultExpiryWarnDays)
	return v
}

type rootFlags struct {
	project       string
	cluster       string
	zone          string
	region        string
	namespace     string
	allNamespaces bool
	output        string
	insecureRetry bool
	useKubeconfig bool
	verbose       bool
}

func main() {
	flags := &rootFlags{}

	v := newViper()

	root := &cobra.Command{
		Use:          "gke-doctor",
		Short:        "Diagnose GKE cluster health: restarts, probes, shutdowns, evictions, certificates",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.project, "project", "", "GCP project ID")
	pf.StringVar(&flags.cluster, "cluster", "", "GKE cluster name")
	pf.StringVar(&flags.zone, "zone", "", "cluster zone (mutually exclusive with --region)")
	pf.StringVar(&flags.region, "region", "", "cluster region (mutually exclusive with --zone)")
	pf.StringVarP(&flags.namespace, "namespace", "n", "", "namespace to inspect (default: all)")
	pf.BoolVarP(&flags.allNamespaces, "all-namespaces", "A", false, "inspect all namespaces")
	pf.StringVarP(&flags.output, "output", "o", "human", "output format: human, json, csv")
	pf.BoolVar(&flags.insecureRetry, "insecure-retry", false, "retry once without TLS verification after a trust failure")
	pf.BoolVar(&flags.useKubeconfig, "kubeconfig", false, "use the active kubeconfig context instead of GKE credentials")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	for _, pass := range diagnose.Passes() {
		pass := pass
		root.AddCommand(&cobra.Command{
			Use:   pass.Name,
			Short: "Diagnose " + pass.Description,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPass(cmd.Context(), v, flags, pass)
			},
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runPass(ctx context.Context, v *viper.Viper, flags *rootFlags, pass diagnose.Pass) error {
	format, err := render.ParseFormat(flags.output)
	if err != nil {
		return err
	}

	logger := newLogger(flags.verbose)

	cfg := analysis.DefaultConfig()
	cfg.SigtermThreshold = v.GetInt("sigterm-threshold")
	cfg.ExpiryWarnDays = v.GetInt("expiry-warn-days")

	sp := newProgressSpinner(format)
	orch := &diagnose.Orchestrator{
		Config:             cfg,
		Logger:             logger,
		Progress:           sp.update,
		AllowInsecureRetry: flags.insecureRetry,
	}

	opts := collector.DefaultOptions()
	if !flags.allNamespaces {
		opts.Namespace = flags.namespace
	}

	result, err := orch.Run(ctx, configSource(v, flags), pass, opts)
	sp.stop()
	if err != nil {
		return fmt.Errorf("%s pass could not gather data: %w", pass.Name, err)
	}

	if err := render.New(format).Render(os.Stdout, result.Report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if result.TrustRelaxed {
		fmt.Fprintln(os.Stderr, "Note: server certificate verification was disabled for this run.")
	}
	for _, next := range result.SuggestedPasses {
		fmt.Fprintf(os.Stderr, "Hint: run `gke-doctor %s` to dig deeper.\n", next)
	}

	if result.MaxSeverity == model.SeverityCritical {
		os.Exit(2)
	}
	return nil
}

func configSource(v *viper.Viper, flags *rootFlags) diagnose.ConfigSource {
	if flags.useKubeconfig {
		return func(ctx context.Context) (*rest.Config, error) {
			return collector.BuildConfigFromKubeconfig()
		}
	}

	ref := collector.ClusterRef{
		Project: firstNonEmpty(flags.project, v.GetString("project")),
		Cluster: firstNonEmpty(flags.cluster, v.GetString("cluster")),
		Zone:    firstNonEmpty(flags.zone, v.GetString("zone")),
		Region:  firstNonEmpty(flags.region, v.GetString("region")),
	}
	return func(ctx context.Context) (*rest.Config, error) {
		return collector.BuildConfigFromGKE(ctx, ref)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// progressSpinner shows phase progress on stderr for human output. For
// machine-readable formats it stays silent so stdout/stderr can be piped
// cleanly.
type progressSpinner struct {
	spin *spinner.Spinner
}

func newProgressSpinner(format render.Format) *progressSpinner {
	if format != render.FormatHuman {
		return &progressSpinner{}
	}
	return &progressSpinner{
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr)),
	}
}

func (p *progressSpinner) update(pass string, phase diagnose.Phase) {
	if p.spin == nil {
		return
	}
	p.spin.Suffix = fmt.Sprintf(" %s: %s", pass, phase)
	if !p.spin.Active() {
		p.spin.Start()
	}
}

func (p *progressSpinner) stop() {
	if p.spin != nil {
		p.spin.Stop()
	}
}
