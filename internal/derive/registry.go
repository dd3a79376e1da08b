package derive

import (
	"fmt"
	"sort"

	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/config"
)

// Registry maps model names to graph constructors.
type Registry struct {
	models map[string]func() (*bond.Graph, error)
}

// NewRegistry registers every built-in preset.
func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func() (*bond.Graph, error))}
	for _, name := range config.ListPresets() {
		r.models[name] = func() (*bond.Graph, error) {
			return config.GetPreset(name).Graph()
		}
	}
	return r
}

func (r *Registry) Register(name string, fn func() (*bond.Graph, error)) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string) (*bond.Graph, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn()
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
