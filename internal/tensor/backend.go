package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go kernels for complex64/complex128
//   - Autodiff: decorator wrapping any Backend, recording a gradient tape
//
// Backends panic on shape violations: callers validate shapes before
// dispatching, so a panic here indicates a bug rather than bad user input.
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar complex128) *RawTensor
	AddScalar(x *RawTensor, scalar complex128) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3D tensors:
	// [B, M, K] @ [B, K, N] -> [B, M, N].
	// A batch dimension of 1 on either side broadcasts against the other.
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Kron computes the Kronecker product of two batched matrices:
	// [M, N, B] ⊗ [P, Q, B] -> [M*P, N*Q, B], with batch-size-1 broadcasting.
	Kron(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Narrow(t *RawTensor, dim, start, length int) *RawTensor
	Expand(t *RawTensor, shape Shape) *RawTensor

	// Math operations (element-wise)
	Conj(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Cos(x *RawTensor) *RawTensor
	Sin(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                           // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension

	// Trace reduces a batched matrix [D, D, B] to its diagonal sum [B].
	Trace(x *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
