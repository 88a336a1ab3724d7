package analysis

import (
	"testing"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

func certRecord(days int) model.CertificateRecord {
	return model.CertificateRecord{
		SecretName:       "web-tls",
		Namespace:        "default",
		CertificateField: "tls.crt",
		DaysUntilExpiry:  days,
	}
}

func expiryCode(t *testing.T, days int) string {
	t.Helper()
	rule := &CertificateRule{Config: DefaultConfig()}
	findings := rule.Evaluate(Input{
		Snapshot:     &collector.Snapshot{Secrets: []collector.SecretSnapshot{{Name: "web-tls"}}},
		Certificates: []model.CertificateRecord{certRecord(days)},
	})
	for _, f := range findings {
		if f.Code == "cert-expired" || f.Code == "cert-expires-soon" {
			return f.Code
		}
	}
	return ""
}

func TestCertificateRuleExpiryBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{15, ""},
		{14, "cert-expires-soon"},
		{1, "cert-expires-soon"},
		{0, "cert-expired"},
		{-1, "cert-expired"},
	}

	for _, tc := range cases {
		if got := expiryCode(t, tc.days); got != tc.want {
			t.Errorf("days=%d: got %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestCertificateRuleSelfSignedIsInformational(t *testing.T) {
	rule := &CertificateRule{Config: DefaultConfig()}
	rec := certRecord(90)
	rec.IsSelfSigned = true

	findings := rule.Evaluate(Input{Certificates: []model.CertificateRecord{rec}})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Code != "cert-self-signed" || findings[0].Severity != model.SeverityInfo {
		t.Errorf("got %+v", findings[0])
	}
}

func TestCertificateRuleKeyMismatchIsCritical(t *testing.T) {
	rule := &CertificateRule{Config: DefaultConfig()}
	rec := certRecord(90)
	mismatch := false
	rec.KeyMatchesCert = &mismatch

	findings := rule.Evaluate(Input{Certificates: []model.CertificateRecord{rec}})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Code != "cert-key-mismatch" || findings[0].Severity != model.SeverityCritical {
		t.Errorf("got %+v", findings[0])
	}
}

func TestCertificateRuleMatchingKeyNoFinding(t *testing.T) {
	rule := &CertificateRule{Config: DefaultConfig()}
	rec := certRecord(90)
	match := true
	rec.KeyMatchesCert = &match

	if findings := rule.Evaluate(Input{Certificates: []model.CertificateRecord{rec}}); len(findings) != 0 {
		t.Errorf("matching key must not produce findings: %+v", findings)
	}
}

func TestCertificateRuleNoTLSSecrets(t *testing.T) {
	rule := &CertificateRule{Config: DefaultConfig()}

	findings := rule.Evaluate(Input{Snapshot: &collector.Snapshot{}})
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Code != "no-tls-secrets" || f.Severity != model.SeverityInfo {
		t.Errorf("got %+v", f)
	}
}

func TestCertificateRuleSkippedSecretsDoNotClaimEmptyScope(t *testing.T) {
	rule := &CertificateRule{Config: DefaultConfig()}

	// Secrets exist but every record was dropped by a data-shape error.
	findings := rule.Evaluate(Input{
		Snapshot: &collector.Snapshot{Secrets: []collector.SecretSnapshot{{Name: "broken"}}},
	})
	for _, f := range findings {
		if f.Code == "no-tls-secrets" {
			t.Errorf("scope was not empty, finding must not fire: %+v", f)
		}
	}
}
