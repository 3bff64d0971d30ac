package merge

import "context"

// Merger defines the interface for the subtitle merge service.
type Merger interface {
	Merge(ctx context.Context, req Request) (*Result, error)
	Batch(ctx context.Context, dir, pattern string, hard, force bool) (*BatchReport, error)
}

var _ Merger = (*Service)(nil)

// Runner executes a program and returns what it wrote to stderr
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)
