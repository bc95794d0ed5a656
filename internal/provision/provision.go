// Package provision abstracts the per-survey graph instance lifecycle. The
// pipeline only needs a reachable endpoint plus credentials; how instances
// are created, started and torn down lives behind this interface.
package provision

import "context"

// Endpoint is everything the pipeline needs to reach one graph instance.
type Endpoint struct {
	URI      string
	Username string
	Password string
	Database string
}

// Provisioner hands out isolated graph instances keyed by survey name.
type Provisioner interface {
	// Ensure returns a ready-to-use endpoint for the named survey, creating
	// and waiting for the instance if necessary.
	Ensure(ctx context.Context, survey string) (Endpoint, error)
	// Release tears down or detaches the named survey's instance.
	Release(ctx context.Context, survey string) error
}

// Static serves one pre-configured endpoint for every survey. It is the
// default when instances are managed outside this process.
type Static struct {
	Endpoint Endpoint
}

func (s *Static) Ensure(_ context.Context, _ string) (Endpoint, error) {
	return s.Endpoint, nil
}

func (s *Static) Release(_ context.Context, _ string) error {
	return nil
}
