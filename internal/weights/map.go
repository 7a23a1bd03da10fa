package weights

import (
	"sort"

	"github.com/born-ml/cugan/internal/tensor"
)

// Map is an in-memory Source. All stored tensors are float32.
type Map map[string]*tensor.RawTensor

// Load implements Source.
func (m Map) Load(name string, shape tensor.Shape) (*tensor.RawTensor, error) {
	t, ok := m[name]
	if !ok {
		return nil, errNotFound(name)
	}
	if err := checkShape(name, t.Shape(), shape); err != nil {
		return nil, err
	}
	return t, nil
}

// Has implements Source.
func (m Map) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns all parameter names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Without returns a copy of m lacking every name under the given prefixes.
func (m Map) Without(prefixes ...string) Map {
	out := make(Map, len(m))
	for name, t := range m {
		drop := false
		for _, p := range prefixes {
			if hasPrefix(name, p) {
				drop = true
				break
			}
		}
		if !drop {
			out[name] = t
		}
	}
	return out
}
