package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for the network's forward pass.
//
// All tensors are float32 NCHW unless noted. Operations allocate their
// result and never modify their inputs.
//
// Implementations:
//   - CPU: im2col + BLAS GEMM, parallel over channels
type Backend interface {
	// Convolutional operations.
	// Conv2D weight is [Cout, Cin, KH, KW]; bias is [Cout] or nil.
	Conv2D(input, weight, bias *RawTensor, stride, padding int) (*RawTensor, error)
	// ConvTranspose2D weight is [Cin, Cout, KH, KW]; bias is [Cout] or nil.
	// Output size is (in-1)*stride - 2*padding + k.
	ConvTranspose2D(input, weight, bias *RawTensor, stride, padding int) (*RawTensor, error)

	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) (*RawTensor, error)
	Mul(a, b *RawTensor) (*RawTensor, error)

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar float32) (*RawTensor, error)
	AddScalar(x *RawTensor, scalar float32) (*RawTensor, error)
	DivScalar(x *RawTensor, scalar float32) (*RawTensor, error)

	// Activation functions
	LeakyReLU(x *RawTensor, slope float32) (*RawTensor, error)
	ReLU(x *RawTensor) (*RawTensor, error)
	Sigmoid(x *RawTensor) (*RawTensor, error)

	// Rounding
	// Round rounds half away from zero.
	Round(x *RawTensor) (*RawTensor, error)
	Clamp(x *RawTensor, lo, hi float32) (*RawTensor, error)

	// Reduction operations
	// MeanHW averages each [N, C] plane over H and W, keeping dims: [N,C,H,W] -> [N,C,1,1].
	MeanHW(x *RawTensor) (*RawTensor, error)

	// Manipulation operations
	Narrow(x *RawTensor, dim, start, length int) (*RawTensor, error)
	IndexSelect(x *RawTensor, dim int, indices []int) (*RawTensor, error)
	Cat(tensors []*RawTensor, dim int) (*RawTensor, error)
	// Paste writes src into dst at spatial offset (top, left). dst is modified.
	Paste(dst, src *RawTensor, top, left int) error

	// Metadata
	Name() string
	Device() Device
}
