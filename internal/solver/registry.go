package solver

import (
	"fmt"
)

// Auto asks the registry for the first available backend.
const Auto = "auto"

type Registry struct {
	backends map[string]func() Backend
	order    []string
}

// NewRegistry registers the built-in backends in preference order. The
// exec backend runs the solver binary at execPath with execArgs.
func NewRegistry(execPath string, execArgs []string) *Registry {
	r := &Registry{
		backends: make(map[string]func() Backend),
	}

	r.Register("gini", func() Backend { return NewGini() })
	r.Register("gophersat", func() Backend { return NewGophersat() })
	r.Register("exec", func() Backend { return NewExec(execPath, execArgs...) })

	return r
}

// Register adds or replaces a backend factory.
func (r *Registry) Register(name string, fn func() Backend) {
	if _, ok := r.backends[name]; !ok {
		r.order = append(r.order, name)
	}
	r.backends[name] = fn
}

// Get returns the named backend, or the first available one for "auto" or "".
func (r *Registry) Get(name string) (Backend, error) {
	if name == "" || name == Auto {
		return r.AutoSelect()
	}

	fn, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownBackend, name, r.Names())
	}
	b := fn()
	if !b.Available() {
		return nil, &Error{Backend: name, Wrapped: ErrUnavailable}
	}
	return b, nil
}

func (r *Registry) AutoSelect() (Backend, error) {
	for _, name := range r.order {
		if b := r.backends[name](); b.Available() {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: no backend available", ErrUnavailable)
}

// Names lists backends in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// List instantiates every backend in registration order.
func (r *Registry) List() []Backend {
	out := make([]Backend, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.backends[name]())
	}
	return out
}
