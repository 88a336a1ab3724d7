package analysis

import "github.com/marek-kar/gke-doctor/pkg/model"

type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
}

// Analyze runs every rule and returns findings in deterministic order.
func (e *Engine) Analyze(in Input) []model.Finding {
	var findings []model.Finding
	for _, r := range e.rules {
		findings = append(findings, r.Evaluate(in)...)
	}
	model.SortFindings(findings)
	return findings
}

// Engines per pass. Each pass shares the rule implementations but supplies
// only the rules that can fire on its record kinds.

func RestartEngine(cfg Config) *Engine {
	return NewEngine(
		&RestartRule{Config: cfg},
		&SigtermAggregateRule{Config: cfg},
	)
}

func ProbeEngine(cfg Config) *Engine {
	return NewEngine(&ProbeRule{})
}

func ShutdownEngine(cfg Config) *Engine {
	return NewEngine(
		&ShutdownRule{Config: cfg},
		&SigtermAggregateRule{Config: cfg},
	)
}

func EvictionEngine(cfg Config) *Engine {
	return NewEngine(&EvictionRule{})
}

func CertificateEngine(cfg Config) *Engine {
	return NewEngine(&CertificateRule{Config: cfg})
}
