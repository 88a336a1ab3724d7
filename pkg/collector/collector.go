package collector

import (
	"context"
	"time"

	"k8s.io/client-go/kubernetes"
)

// Collect gathers the requested resource kinds into a Snapshot. Any query
// failure aborts the whole collection: a pass must never analyze silently
// partial data.
func Collect(ctx context.Context, client kubernetes.Interface, opts Options) (*Snapshot, error) {
	snap := &Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		CollectedAt:   time.Now().UTC(),
		Namespace:     opts.Namespace,
	}

	if opts.NeedPods {
		pods, err := collectPods(ctx, client, opts.Namespace)
		if err != nil {
			return nil, err
		}
		snap.Pods = pods
	}

	if opts.NeedEvents {
		events, err := collectEvents(ctx, client, opts.Namespace, opts.Since)
		if err != nil {
			return nil, err
		}
		snap.Events = events
	}

	if opts.NeedNodes {
		nodes, err := collectNodes(ctx, client)
		if err != nil {
			return nil, err
		}
		snap.Nodes = nodes
	}

	if opts.NeedSecrets {
		secrets, err := collectTLSSecrets(ctx, client, opts.Namespace)
		if err != nil {
			return nil, err
		}
		snap.Secrets = secrets
	}

	if opts.NeedPolicies {
		pcs, err := collectPriorityClasses(ctx, client)
		if err != nil {
			return nil, err
		}
		snap.PriorityClasses = pcs

		pdbs, err := collectPDBs(ctx, client, opts.Namespace)
		if err != nil {
			return nil, err
		}
		snap.PDBs = pdbs
	}

	return snap, nil
}
