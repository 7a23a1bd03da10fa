package weights

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/born-ml/cugan/internal/tensor"
)

// Random synthesizes deterministic weights on demand. Each name gets its own
// stream seeded from Seed and the name, so values do not depend on load order.
//
// Weights are uniform in ±sqrt(3/fan_in) (unit-variance activations); biases
// are uniform in ±0.05 unless pinned in Biases.
type Random struct {
	Seed uint64

	// Omit hides every name under these prefixes, e.g. "unet2.conv3.seblock".
	Omit []string

	// Biases pins a bias tensor to a constant, keyed by full name.
	Biases map[string]float32
}

// NewRandom returns a Random source with the given seed.
func NewRandom(seed uint64, omit ...string) *Random {
	return &Random{Seed: seed, Omit: omit}
}

// Has implements Source.
func (r *Random) Has(name string) bool {
	for _, p := range r.Omit {
		if hasPrefix(name, p) {
			return false
		}
	}
	return true
}

// Load implements Source.
func (r *Random) Load(name string, shape tensor.Shape) (*tensor.RawTensor, error) {
	if !r.Has(name) {
		return nil, errNotFound(name)
	}
	t, err := tensor.Zeros(shape)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()

	if v, ok := r.Biases[name]; ok {
		for i := range data {
			data[i] = v
		}
		return t, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	rng := rand.New(rand.NewPCG(r.Seed, h.Sum64()))

	bound := 0.05
	if len(shape) == 4 {
		// Fan-in of a conv kernel; transposed kernels are close enough.
		bound = math.Sqrt(3 / float64(shape[1]*shape[2]*shape[3]))
	}
	for i := range data {
		data[i] = float32((rng.Float64()*2 - 1) * bound)
	}
	return t, nil
}
