package diagnose

import (
	"context"
	"sync"

	"k8s.io/client-go/kubernetes"

	"github.com/marek-kar/gke-doctor/pkg/collector"
)

type NamespaceResult struct {
	Namespace string
	Result    *Result
	Err       error
}

// RunNamespaces fans one pass out across namespaces. Each pass owns its
// snapshot, input, and report; nothing mutable is shared, so results are as
// deterministic as a sequential run. Results come back in input order.
func (o *Orchestrator) RunNamespaces(ctx context.Context, client kubernetes.Interface, pass Pass, opts collector.Options, namespaces []string) []NamespaceResult {
	results := make([]NamespaceResult, len(namespaces))

	var wg sync.WaitGroup
	for i, ns := range namespaces {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			nsOpts := opts
			nsOpts.Namespace = ns
			res, err := o.RunWithClient(ctx, client, pass, nsOpts)
			results[i] = NamespaceResult{Namespace: ns, Result: res, Err: err}
		}(i, ns)
	}
	wg.Wait()

	return results
}
