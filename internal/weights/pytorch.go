package weights

import (
	"fmt"

	"github.com/nlpodyssey/gopickle/pytorch"
	"github.com/nlpodyssey/gopickle/types"

	"github.com/born-ml/cugan/internal/tensor"
)

// ReadPyTorch loads a PyTorch state dict saved with torch.save.
//
// Only float storages are accepted; every tensor is copied out as a dense
// float32 tensor honoring its storage offset and strides.
func ReadPyTorch(path string) (Map, error) {
	obj, err := pytorch.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}

	m := make(Map)
	add := func(k, v any) error {
		name, ok := k.(string)
		if !ok {
			return fmt.Errorf("%w: non-string key %v", ErrFormat, k)
		}
		pt, ok := v.(*pytorch.Tensor)
		if !ok {
			// Non-tensor entries (e.g. version counters) are skipped.
			return nil
		}
		t, err := fromPyTorch(pt)
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}
		m[name] = t
		return nil
	}

	switch d := obj.(type) {
	case *types.OrderedDict:
		for e := d.List.Front(); e != nil; e = e.Next() {
			entry := e.Value.(*types.OrderedDictEntry)
			if err := add(entry.Key, entry.Value); err != nil {
				return nil, err
			}
		}
	case *types.Dict:
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s: top-level object is %T, want a state dict", ErrFormat, path, obj)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%w: %s holds no tensors", ErrFormat, path)
	}
	return m, nil
}

func fromPyTorch(pt *pytorch.Tensor) (*tensor.RawTensor, error) {
	var at func(i int) float32
	switch s := pt.Source.(type) {
	case *pytorch.FloatStorage:
		at = func(i int) float32 { return s.Data[i] }
	case *pytorch.HalfStorage:
		at = func(i int) float32 { return s.Data[i] }
	case *pytorch.DoubleStorage:
		at = func(i int) float32 { return float32(s.Data[i]) }
	default:
		return nil, fmt.Errorf("%w: storage %T", ErrFormat, pt.Source)
	}

	shape := tensor.Shape(append([]int(nil), pt.Size...))
	if len(shape) != len(pt.Stride) {
		return nil, fmt.Errorf("%w: size %v with stride %v", ErrFormat, pt.Size, pt.Stride)
	}
	out, err := tensor.Zeros(shape)
	if err != nil {
		return nil, err
	}
	dst := out.AsFloat32()

	// Walk the logical index space in row-major order.
	idx := make([]int, len(shape))
	for i := range dst {
		off := pt.StorageOffset
		for d, v := range idx {
			off += v * pt.Stride[d]
		}
		dst[i] = at(off)

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out, nil
}
