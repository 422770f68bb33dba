package core

import "context"

// Dataset provides test cases for a run.
type Dataset interface {
	Name() string
	Len(ctx context.Context) (int, error)
	Cases(ctx context.Context) (<-chan TestCase, <-chan error)
}
