package collector

import "time"

// Options selects the scope and the resource kinds a pass needs. Each pass
// sets only the Need* flags its rules read, so a certificate pass never
// lists nodes.
type Options struct {
	Namespace string // empty = all namespaces
	Since     time.Duration

	NeedPods     bool
	NeedEvents   bool
	NeedNodes    bool
	NeedSecrets  bool
	NeedPolicies bool
}

func DefaultOptions() Options {
	return Options{
		Namespace: "",
		Since:     30 * time.Minute,
	}
}
