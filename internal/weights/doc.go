// Package weights resolves hierarchical parameter names to weight tensors.
//
// Names mirror the network structure, e.g. "unet2.conv3.seblock.conv1.bias".
// A Source answers name lookups; Scope walks the hierarchy and checks every
// loaded tensor against the shape the layer expects.
//
// Stores:
//   - Map: in-memory name -> tensor table, the result of Open
//   - SafeTensors files (F32, F64, F16, BF16), read with SafeTensorsReader
//   - PyTorch .pth state dicts, read with gopickle
//   - Random: deterministic synthetic weights for tests
//
// Example:
//
//	src, err := weights.Open("models/up2x-latest-conservative.pth")
//	if err != nil {
//	    return err
//	}
//	w, err := weights.Root(src).Child("unet1").Child("conv1").Load("conv.0.weight", tensor.Shape{32, 3, 3, 3})
package weights
