package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// OverlapAdd implements FFT-based convolution using the overlap-add method.
//
// The input is cut into non-overlapping blocks; each block is zero-padded,
// multiplied with the kernel spectrum and transformed back, and the block
// results are summed at their offsets.
//
// An OverlapAdd reuses scratch buffers and is not safe for concurrent use.
type OverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]

	block []complex128
	work  []complex128
}

// NewOverlapAdd creates a new overlap-add convolver for the given kernel.
// If blockSize is 0, a size is chosen from the kernel length.
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	kernelLen := len(kernel)
	if blockSize == 0 {
		blockSize = max(nextPowerOf2(kernelLen), 256)
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		block:     make([]complex128, fftSize),
		work:      make([]complex128, fftSize),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}

	if err := plan.Forward(oa.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// BlockSize returns the input block size.
func (oa *OverlapAdd) BlockSize() int {
	return oa.blockSize
}

// FFTSize returns the FFT size used internally.
func (oa *OverlapAdd) FFTSize() int {
	return oa.fftSize
}

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int {
	return oa.kernelLen
}

// Process convolves input with the kernel and returns the full result of
// length len(input) + KernelLen() - 1.
func (oa *OverlapAdd) Process(input []complex128) ([]complex128, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]complex128, len(input)+oa.kernelLen-1)
	if err := oa.ProcessTo(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// ProcessTo convolves input into a pre-allocated output of length
// len(input) + KernelLen() - 1.
func (oa *OverlapAdd) ProcessTo(output, input []complex128) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	outputLen := len(input) + oa.kernelLen - 1
	if len(output) != outputLen {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, outputLen, len(output))
	}
	clear(output)

	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))

		clear(oa.block)
		copy(oa.block, input[start:end])

		if err := oa.plan.Forward(oa.block, oa.block); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}

		for i := range oa.work {
			oa.work[i] = oa.block[i] * oa.kernelFFT[i]
		}

		if err := oa.plan.Inverse(oa.work, oa.work); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		resultLen := end - start + oa.kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += oa.work[i]
		}
	}

	return nil
}

// OverlapAddConvolve performs one-shot overlap-add convolution.
func OverlapAddConvolve(signal []complex128, kernel []float64) ([]complex128, error) {
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}
	return oa.Process(signal)
}
