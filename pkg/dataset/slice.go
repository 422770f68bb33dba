package dataset

import (
	"context"

	"evalgo/pkg/core"
)

// SliceDataset serves an in-memory list of test cases.
type SliceDataset struct {
	NameHint string
	Items    []core.TestCase
}

func NewSliceDataset(cases []core.TestCase, name string) *SliceDataset {
	if name == "" {
		name = "inline"
	}
	return &SliceDataset{NameHint: name, Items: cases}
}

func (d *SliceDataset) Name() string {
	return d.NameHint
}

func (d *SliceDataset) Len(_ context.Context) (int, error) {
	return len(d.Items), nil
}

func (d *SliceDataset) Cases(ctx context.Context) (<-chan core.TestCase, <-chan error) {
	caseCh := make(chan core.TestCase)
	errCh := make(chan error, 1)
	go func() {
		defer close(caseCh)
		defer close(errCh)
		for _, tc := range d.Items {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case caseCh <- tc:
			}
		}
	}()
	return caseCh, errCh
}
