package tilegemm

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Target selects the device class an Execute call runs on. Falling
// back from one class to the other is always an explicit caller
// decision, never automatic.
type Target int

const (
	// TargetCPU runs the sequential reference kernel on the caller's
	// goroutine.
	TargetCPU Target = iota
	// TargetGPU runs the selected kernel variant on the simulated
	// accelerator.
	TargetGPU
)

// String returns the target tag.
func (t Target) String() string {
	switch t {
	case TargetCPU:
		return "cpu"
	case TargetGPU:
		return "gpu"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget maps a target tag to its Target value.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "cpu":
		return TargetCPU, nil
	case "gpu":
		return TargetGPU, nil
	default:
		return 0, NewDeviceUnavailableError("ParseTarget", fmt.Sprintf("unknown target %q", s))
	}
}

// Algorithm selects one kernel variant. The set is closed and fixed at
// configuration time; each value maps to a distinct specialized
// routine, not to runtime virtual dispatch.
type Algorithm int

const (
	AlgNaive Algorithm = iota
	AlgCoalescing
	AlgTiled
	AlgTiledRegister
	AlgBlockTiled
	AlgBlockTiledVectorized
	AlgTensorCore

	numAlgorithms // sentinel
)

var algorithmNames = [numAlgorithms]string{
	AlgNaive:                "naive",
	AlgCoalescing:           "coalescing",
	AlgTiled:                "tiled",
	AlgTiledRegister:        "tiled_register",
	AlgBlockTiled:           "block_tiled",
	AlgBlockTiledVectorized: "block_tiled_vectorized",
	AlgTensorCore:           "tensor_core",
}

func (a Algorithm) valid() bool {
	return a >= 0 && a < numAlgorithms
}

// String returns the algorithm tag.
func (a Algorithm) String() string {
	if a.valid() {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps an algorithm tag to its Algorithm value. Unknown
// tags fail with UnsupportedAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algorithmNames {
		if s == name {
			return Algorithm(a), nil
		}
	}
	return 0, NewUnsupportedAlgorithmError("ParseAlgorithm", fmt.Sprintf("unknown algorithm %q", s))
}

// Algorithms returns all valid algorithm values in tag order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, numAlgorithms)
	for i := range out {
		out[i] = Algorithm(i)
	}
	return out
}

// Execute computes dst = a·b with the kernel variant selected by
// target and algo. On success dst holds the product and is fully
// overwritten; dst is treated as zero-initialized per call regardless
// of its prior contents.
//
// All failures are configuration-time and occur before anything is
// written to dst: ShapeMismatch for a.Cols != b.Rows, a wrongly shaped
// dst, or an unmet tensor-core tiling precondition;
// UnsupportedAlgorithm for a tag outside the closed set;
// DeviceUnavailable when target is gpu and ctx carries no accelerator.
// A K extent of zero is a valid degenerate input: dst is zero-filled
// and every variant leaves it all-zero.
func Execute[T Float](dst, a, b Matrix[T], ctx *Context, target Target, algo Algorithm) error {
	const op = "Execute"

	if a.Cols != b.Rows {
		return NewShapeMismatchError(op, fmt.Sprintf(
			"A is %dx%d, B is %dx%d: A.cols must equal B.rows", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	if dst.Rows != a.Rows || dst.Cols != b.Cols {
		return NewShapeMismatchError(op, fmt.Sprintf(
			"output is %dx%d, want %dx%d", dst.Rows, dst.Cols, a.Rows, b.Cols))
	}
	if !algo.valid() {
		return NewUnsupportedAlgorithmError(op, fmt.Sprintf("unknown algorithm tag %d", int(algo)))
	}
	if algo == AlgTensorCore {
		if err := checkTensorCoreConfig(op, tcWM, tcWN, a.Cols); err != nil {
			return err
		}
	}

	switch target {
	case TargetCPU:
		// No geometry, no launch: clear and run the reference kernel
		// on the caller's goroutine.
		for r := 0; r < dst.Rows; r++ {
			clear(dst.Row(r))
		}
		ReferenceGEMM(dst, a, b)
		return nil

	case TargetGPU:
		if ctx == nil || ctx.device == nil {
			return NewDeviceUnavailableError(op, "gpu target requested but no accelerator is present")
		}
		klog.V(1).Infof("dispatch %s on %s: %dx%dx%d", algo, target, dst.Rows, b.Rows, dst.Cols)

		// Accumulation kernels read-modify-write the output.
		if err := zeroFillOutput(ctx, dst); err != nil {
			return err
		}
		switch algo {
		case AlgNaive:
			return launch(ctx, &naiveKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgCoalescing:
			return launch(ctx, &coalescedKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgTiled:
			return launch(ctx, &tiledKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgTiledRegister:
			return launch(ctx, &regTileKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgBlockTiled:
			return launch(ctx, &blockTileKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgBlockTiledVectorized:
			return launch(ctx, &vecBlockTileKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		case AlgTensorCore:
			return launch(ctx, &tensorCoreKernel[T]{c: dst, a: a, b: b}, ctx.defaultStream)
		default:
			return NewUnsupportedAlgorithmError(op, fmt.Sprintf("unknown algorithm tag %d", int(algo)))
		}

	default:
		return NewDeviceUnavailableError(op, fmt.Sprintf("unknown target class %d", int(target)))
	}
}

// checkTensorCoreConfig verifies the tensor-core tiling preconditions
// at configuration time, before any geometry or launch work.
func checkTensorCoreConfig(op string, wm, wn, kExtent int) error {
	if wm%mmaM != 0 {
		return NewShapeMismatchError(op, fmt.Sprintf(
			"warp tile WM=%d is not a multiple of MMA_M=%d", wm, mmaM))
	}
	if wn%mmaN != 0 {
		return NewShapeMismatchError(op, fmt.Sprintf(
			"warp tile WN=%d is not a multiple of MMA_N=%d", wn, mmaN))
	}
	if kExtent%mmaK != 0 {
		return NewShapeMismatchError(op, fmt.Sprintf(
			"K=%d is not a multiple of MMA_K=%d", kExtent, mmaK))
	}
	return nil
}

// zeroFillOutput clears the output buffer through the device. A tight
// view clears in one flat fill; a strided view clears row by row.
func zeroFillOutput[T Float](ctx *Context, dst Matrix[T]) error {
	if dst.Stride == dst.Cols {
		return ZeroFill(ctx, dst.Data[:dst.Rows*dst.Cols])
	}
	for r := 0; r < dst.Rows; r++ {
		if err := ZeroFill(ctx, dst.Row(r)); err != nil {
			return err
		}
	}
	return nil
}
