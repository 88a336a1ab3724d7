package collector

import (
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// TransportError covers unreachable API servers, timeouts, and TLS trust
// failures. TLSTrust distinguishes the one case where a relaxed-trust retry
// is permitted.
type TransportError struct {
	Op       string
	TLSTrust bool
	Err      error
}

func (e *TransportError) Error() string {
	if e.TLSTrust {
		return fmt.Sprintf("%s: TLS trust failure: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication/authorization failure: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError carries near-match candidates so the operator can see what
// does exist in scope.
type NotFoundError struct {
	Resource    string
	Name        string
	Namespace   string
	NearMatches []string
	Err         error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Resource, e.Name)
	if e.Namespace != "" {
		msg += fmt.Sprintf(" in namespace %q", e.Namespace)
	}
	if len(e.NearMatches) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.NearMatches, ", "))
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ConfigError marks invalid input detected before any network call.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Msg }

// IsTLSTrustFailure reports whether err is a certificate-trust problem, the
// only transport failure eligible for a relaxed-trust retry.
func IsTLSTrustFailure(err error) bool {
	var te *TransportError
	if errors.As(err, &te) && te.TLSTrust {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "x509:")
}

// classifyAPIError maps a client-go error into the taxonomy. Queries that
// legitimately return zero items do not pass through here; an error always
// means the query itself failed.
func classifyAPIError(op string, err error) error {
	switch {
	case apierrors.IsUnauthorized(err), apierrors.IsForbidden(err):
		return &AuthError{Op: op, Err: err}
	case apierrors.IsNotFound(err):
		return &NotFoundError{Resource: op, Name: "", Err: err}
	case IsTLSTrustFailure(err):
		return &TransportError{Op: op, TLSTrust: true, Err: err}
	default:
		return &TransportError{Op: op, Err: err}
	}
}
