package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type CertificateRule struct {
	Config Config
}

func (r *CertificateRule) Name() string { return "certificate-expiry" }

func (r *CertificateRule) Evaluate(in Input) []model.Finding {
	var findings []model.Finding

	if len(in.Certificates) == 0 {
		if in.Snapshot == nil || len(in.Snapshot.Secrets) == 0 {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "no-tls-secrets",
				Severity:      model.SeverityInfo,
				Message:       "no TLS secrets found in scope",
				Record:        model.RecordRef{Kind: model.KindCluster},
			})
		}
		return findings
	}

	for _, rec := range in.Certificates {
		ref := model.RecordRef{
			Kind:      model.KindCertificate,
			Namespace: rec.Namespace,
			Name:      rec.SecretName,
		}

		switch {
		case rec.DaysUntilExpiry <= 0:
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "cert-expired",
				Severity:      model.SeverityCritical,
				Message: fmt.Sprintf("certificate in %s/%s (%s) expired %d day(s) ago",
					rec.Namespace, rec.SecretName, rec.CertificateField, -rec.DaysUntilExpiry),
				Record:    ref,
				NextSteps: certRenewalSteps(rec),
			})
		case rec.DaysUntilExpiry <= r.Config.ExpiryWarnDays:
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "cert-expires-soon",
				Severity:      model.SeverityWarning,
				Message: fmt.Sprintf("certificate in %s/%s (%s) expires in %d day(s)",
					rec.Namespace, rec.SecretName, rec.CertificateField, rec.DaysUntilExpiry),
				Record:    ref,
				NextSteps: certRenewalSteps(rec),
			})
		}

		if rec.IsSelfSigned {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "cert-self-signed",
				Severity:      model.SeverityInfo,
				Message:       fmt.Sprintf("certificate in %s/%s is self-signed", rec.Namespace, rec.SecretName),
				Record:        ref,
			})
		}

		if rec.KeyMatchesCert != nil && !*rec.KeyMatchesCert {
			findings = append(findings, model.Finding{
				SchemaVersion: model.SchemaVersion,
				Code:          "cert-key-mismatch",
				Severity:      model.SeverityCritical,
				Message: fmt.Sprintf("private key in %s/%s does not match its certificate; TLS handshakes will fail",
					rec.Namespace, rec.SecretName),
				Record: ref,
				NextSteps: []string{
					"Re-issue the secret with the key pair the certificate was signed for",
				},
			})
		}
	}

	return findings
}

func certRenewalSteps(rec model.CertificateRecord) []string {
	steps := []string{
		fmt.Sprintf("kubectl get secret -n %s %s -o yaml", rec.Namespace, rec.SecretName),
		"Renew the certificate and update the secret",
	}
	for _, w := range rec.ReferencingWorkloads {
		steps = append(steps, fmt.Sprintf("Restart %s after rotation so it picks up the new secret", w))
	}
	return steps
}
