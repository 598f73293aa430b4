// Package samples is the catalog of runnable Google Cloud samples. Each
// sample is a descriptor (name, product, positional parameters) plus a
// RunFunc that builds nothing itself: clients come from the Clients provider
// and long-running operations go through the shared poller.
package samples

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
)

// RunFunc executes a sample with bound arguments, writing its output to out.
type RunFunc func(ctx context.Context, args sample.Args, out io.Writer) error

// Entry pairs a descriptor with its implementation.
type Entry struct {
	Sample sample.Sample
	Run    RunFunc
}

// Registry holds samples by name. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a sample. It panics on an invalid descriptor, a nil RunFunc
// or a duplicate name, since those are programming errors caught at startup.
func (r *Registry) Register(s sample.Sample, run RunFunc) {
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("samples: invalid sample %q: %v", s.Name, err))
	}
	if run == nil {
		panic(fmt.Sprintf("samples: nil run func for %q", s.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.entries[s.Name]; dup {
		panic(fmt.Sprintf("samples: duplicate sample %q", s.Name))
	}
	r.entries[s.Name] = Entry{Sample: s, Run: run}
}

// markLocalOnly flags a registered sample as CLI-only. It panics for an
// unknown name.
func (r *Registry) markLocalOnly(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		panic(fmt.Sprintf("samples: cannot mark unknown sample %q local-only", name))
	}
	e.Sample.LocalOnly = true
	r.entries[name] = e
}

// Lookup returns the named entry or an error wrapping domain.ErrNotFound.
func (r *Registry) Lookup(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("sample %q: %w", name, domain.ErrNotFound)
	}
	return e, nil
}

// List returns descriptors sorted by product then name. An empty product
// returns every sample.
func (r *Registry) List(product string) []sample.Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sample.Sample, 0, len(r.entries))
	for _, e := range r.entries {
		if product == "" || e.Sample.Product == product {
			out = append(out, e.Sample)
		}
	}
	slices.SortFunc(out, func(a, b sample.Sample) int {
		return cmp.Or(cmp.Compare(a.Product, b.Product), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Products returns the distinct product names, sorted.
func (r *Registry) Products() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range r.entries {
		seen[e.Sample.Product] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
