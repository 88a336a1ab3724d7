package collector

import (
	"context"
	"sort"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

func collectTLSSecrets(ctx context.Context, client kubernetes.Interface, namespace string) ([]SecretSnapshot, error) {
	list, err := client.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyAPIError("list secrets", err)
	}

	secrets := make([]SecretSnapshot, 0)
	for _, s := range list.Items {
		if s.Type != corev1.SecretTypeTLS {
			continue
		}
		secrets = append(secrets, SecretSnapshot{
			Name:      s.Name,
			Namespace: s.Namespace,
			Type:      s.Type,
			Data:      s.Data,
		})
	}
	return secrets, nil
}

// GetTLSSecret fetches one secret by name. On not-found it lists the TLS
// secrets that do exist in the namespace so the error names the candidates.
func GetTLSSecret(ctx context.Context, client kubernetes.Interface, namespace, name string) (*SecretSnapshot, error) {
	s, err := client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, &NotFoundError{
				Resource:    "secret",
				Name:        name,
				Namespace:   namespace,
				NearMatches: listTLSSecretNames(ctx, client, namespace),
				Err:         err,
			}
		}
		return nil, classifyAPIError("get secret", err)
	}

	return &SecretSnapshot{
		Name:      s.Name,
		Namespace: s.Namespace,
		Type:      s.Type,
		Data:      s.Data,
	}, nil
}

func listTLSSecretNames(ctx context.Context, client kubernetes.Interface, namespace string) []string {
	secrets, err := collectTLSSecrets(ctx, client, namespace)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(secrets))
	for _, s := range secrets {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
