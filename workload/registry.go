package workload

import (
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list attached to [ErrUnknown].
const maxSuggestions = 3

// Registry holds workloads by name in registration order.
type Registry struct {
	order []string
	names mapset.Set[string]
	byKey map[string]Workload
}

// NewRegistry returns a registry holding ws.
func NewRegistry(ws ...Workload) (*Registry, error) {
	r := &Registry{
		names: mapset.NewThreadUnsafeSet[string](),
		byKey: make(map[string]Workload, len(ws)),
	}

	for _, w := range ws {
		if err := r.Add(w); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Default returns a registry of the built-in workloads.
func Default() *Registry {
	r, _ := NewRegistry(Builtins()...)

	return r
}

// Add registers w. Names are unique.
func (r *Registry) Add(w Workload) error {
	switch {
	case w.Name == "":
		return ErrEmptyName
	case w.Func == nil:
		return ErrNilFunc.With(slog.String("workload", w.Name))
	case !r.names.Add(w.Name):
		return ErrDuplicate.With(slog.String("workload", w.Name))
	}

	r.order = append(r.order, w.Name)
	r.byKey[w.Name] = w

	return nil
}

// Names returns workload names in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// Len returns the number of registered workloads.
func (r *Registry) Len() int { return len(r.order) }

// All returns every workload in registration order.
func (r *Registry) All() []Workload {
	ws := make([]Workload, 0, len(r.order))
	for _, name := range r.order {
		ws = append(ws, r.byKey[name])
	}

	return ws
}

// Lookup returns the workload registered as name. An unknown name yields
// [ErrUnknown] decorated with the closest registered names.
func (r *Registry) Lookup(name string) (Workload, error) {
	if w, ok := r.byKey[name]; ok {
		return w, nil
	}

	err := ErrUnknown.With(slog.String("workload", name))

	if s := r.Suggest(name); len(s) > 0 {
		err = err.With(slog.Any("suggest", s))
	}

	return Workload{}, err
}

// Suggest returns up to three registered names that fuzzy-match name, best
// match first.
func (r *Registry) Suggest(name string) []string {
	matches := fuzzy.Find(name, r.order)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// Select resolves names to workloads in the order given, dropping repeats.
// No names selects every workload.
func (r *Registry) Select(names ...string) ([]Workload, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	seen := mapset.NewThreadUnsafeSetWithSize[string](len(names))
	ws := make([]Workload, 0, len(names))

	for _, name := range names {
		if !seen.Add(name) {
			continue
		}

		w, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}

		ws = append(ws, w)
	}

	return ws, nil
}
