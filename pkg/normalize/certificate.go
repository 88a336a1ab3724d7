package normalize

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sort"
	"time"

	"github.com/marek-kar/gke-doctor/pkg/collector"
	"github.com/marek-kar/gke-doctor/pkg/model"
)

const (
	tlsCertField = "tls.crt"
	tlsKeyField  = "tls.key"
	caCertField  = "ca.crt"
)

const DataShapeCode = "data-shape-error"

// CertificateRecords extracts certificate metadata from TLS secrets. A secret
// whose data does not decode produces a data-shape finding and is skipped;
// one bad secret never aborts the pass.
func CertificateRecords(snap *collector.Snapshot, now time.Time) ([]model.CertificateRecord, []model.Finding) {
	var records []model.CertificateRecord
	var findings []model.Finding

	for _, secret := range snap.Secrets {
		for _, field := range []string{tlsCertField, caCertField} {
			data, ok := secret.Data[field]
			if !ok {
				if field == tlsCertField {
					findings = append(findings, dataShapeFinding(secret, field, "field missing"))
				}
				continue
			}

			cert, err := parseCertificate(data)
			if err != nil {
				findings = append(findings, dataShapeFinding(secret, field, err.Error()))
				continue
			}

			rec := model.CertificateRecord{
				SecretName:           secret.Name,
				Namespace:            secret.Namespace,
				CertificateField:     field,
				Subject:              cert.Subject.String(),
				Issuer:               cert.Issuer.String(),
				NotBefore:            cert.NotBefore.UTC(),
				NotAfter:             cert.NotAfter.UTC(),
				DaysUntilExpiry:      daysUntil(cert.NotAfter, now),
				IsSelfSigned:         bytes.Equal(cert.RawSubject, cert.RawIssuer),
				ReferencingWorkloads: referencingWorkloads(snap.Pods, secret),
			}

			if field == tlsCertField {
				if keyData, ok := secret.Data[tlsKeyField]; ok {
					match, err := keyMatchesCertificate(cert, keyData)
					if err != nil {
						findings = append(findings, dataShapeFinding(secret, tlsKeyField, err.Error()))
					} else {
						rec.KeyMatchesCert = &match
					}
				}
			}

			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Namespace != records[j].Namespace {
			return records[i].Namespace < records[j].Namespace
		}
		if records[i].SecretName != records[j].SecretName {
			return records[i].SecretName < records[j].SecretName
		}
		return records[i].CertificateField < records[j].CertificateField
	})
	return records, findings
}

func dataShapeFinding(secret collector.SecretSnapshot, field, reason string) model.Finding {
	return model.Finding{
		SchemaVersion: model.SchemaVersion,
		Code:          DataShapeCode,
		Severity:      model.SeverityWarning,
		Message:       fmt.Sprintf("secret %s/%s field %q could not be decoded (%s); record skipped, report is partial", secret.Namespace, secret.Name, field, reason),
		Record: model.RecordRef{
			Kind:      model.KindCertificate,
			Namespace: secret.Namespace,
			Name:      secret.Name,
		},
	}
}

func parseCertificate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("not valid PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("not valid X.509: %v", err)
	}
	return cert, nil
}

// daysUntil truncates toward zero, so any moment on the expiry day counts as
// day zero, which classifies as expired.
func daysUntil(notAfter, now time.Time) int {
	return int(notAfter.Sub(now).Hours() / 24)
}

func keyMatchesCertificate(cert *x509.Certificate, keyData []byte) (bool, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return false, fmt.Errorf("private key is not valid PEM")
	}

	key, err := parsePrivateKey(block.Bytes)
	if err != nil {
		return false, err
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return false, fmt.Errorf("unsupported private key type %T", key)
	}
	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return false, fmt.Errorf("unsupported certificate public key type %T", cert.PublicKey)
	}
	return pub.Equal(signer.Public()), nil
}

func parsePrivateKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("private key is not PKCS1, PKCS8, or EC")
}

func referencingWorkloads(pods []collector.PodSnapshot, secret collector.SecretSnapshot) []string {
	var refs []string
	for _, pod := range pods {
		if pod.Namespace != secret.Namespace {
			continue
		}
		for _, name := range pod.SecretVolumes {
			if name == secret.Name {
				refs = append(refs, fmt.Sprintf("Pod/%s/%s", pod.Namespace, pod.Name))
				break
			}
		}
	}
	sort.Strings(refs)
	return refs
}
