package collector

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	container "google.golang.org/api/container/v1"
	"google.golang.org/api/googleapi"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ClusterRef identifies a GKE cluster. Exactly one of Zone or Region must be
// set.
type ClusterRef struct {
	Project string
	Cluster string
	Zone    string
	Region  string
}

func (r ClusterRef) Validate() error {
	if r.Project == "" {
		return &ConfigError{Msg: "project is required"}
	}
	if r.Cluster == "" {
		return &ConfigError{Msg: "cluster is required"}
	}
	if r.Zone != "" && r.Region != "" {
		return &ConfigError{Msg: "zone and region are mutually exclusive"}
	}
	if r.Zone == "" && r.Region == "" {
		return &ConfigError{Msg: "one of zone or region is required"}
	}
	return nil
}

func (r ClusterRef) Location() string {
	if r.Zone != "" {
		return r.Zone
	}
	return r.Region
}

// BuildConfigFromGKE resolves cluster endpoint and CA from the GKE control
// plane and returns a rest.Config authenticated with application default
// credentials.
func BuildConfigFromGKE(ctx context.Context, ref ClusterRef) (*rest.Config, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	ts, err := google.DefaultTokenSource(ctx, container.CloudPlatformScope)
	if err != nil {
		return nil, &AuthError{Op: "load application default credentials", Err: err}
	}

	svc, err := container.NewService(ctx)
	if err != nil {
		return nil, &TransportError{Op: "create container service", Err: err}
	}

	name := fmt.Sprintf("projects/%s/locations/%s/clusters/%s", ref.Project, ref.Location(), ref.Cluster)
	cluster, err := svc.Projects.Locations.Clusters.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, classifyGKEError(ref, err)
	}

	caData, err := base64.StdEncoding.DecodeString(cluster.MasterAuth.ClusterCaCertificate)
	if err != nil {
		return nil, &TransportError{Op: "decode cluster CA certificate", Err: err}
	}

	config := &rest.Config{
		Host: "https://" + cluster.Endpoint,
		TLSClientConfig: rest.TLSClientConfig{
			CAData: caData,
		},
		WrapTransport: func(rt http.RoundTripper) http.RoundTripper {
			return &oauth2.Transport{Source: ts, Base: rt}
		},
	}
	return config, nil
}

func classifyGKEError(ref ClusterRef, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return &NotFoundError{Resource: "cluster", Name: ref.Cluster, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Op: "get cluster " + ref.Cluster, Err: err}
		}
	}
	return &TransportError{Op: "get cluster " + ref.Cluster, Err: err}
}

// BuildConfigFromKubeconfig loads the active kubeconfig context, the
// non-GKE fallback path.
func BuildConfigFromKubeconfig() (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		rules, &clientcmd.ConfigOverrides{},
	).ClientConfig()
	if err != nil {
		return nil, &AuthError{Op: "load kubeconfig", Err: err}
	}
	return config, nil
}

func NewClient(config *rest.Config) (kubernetes.Interface, error) {
	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, &TransportError{Op: "create client", Err: err}
	}
	return client, nil
}

// VerifyConnectivity performs one inexpensive read to confirm the API server
// is reachable before the pass gathers data.
func VerifyConnectivity(ctx context.Context, client kubernetes.Interface) error {
	_, err := client.Discovery().ServerVersion()
	if err != nil {
		return classifyAPIError("verify connectivity", err)
	}
	return nil
}

// RelaxTrust returns a copy of config that skips server certificate
// verification. Callers opt in explicitly; this is never an implicit
// fallback.
func RelaxTrust(config *rest.Config) *rest.Config {
	relaxed := rest.CopyConfig(config)
	relaxed.TLSClientConfig.Insecure = true
	relaxed.TLSClientConfig.CAData = nil
	relaxed.TLSClientConfig.CAFile = ""
	return relaxed
}
