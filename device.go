package tilegemm

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// WarpSize is the number of threads in a lockstep sub-group. The
// tensor-core kernel assigns one warp per output warp-tile.
const WarpSize = 32

// defaultSystemMemory is reported when the OS query is unavailable.
const defaultSystemMemory = 16 << 30

// probeDevice builds the device handle for the simulated accelerator.
// Feature names come from the host CPU so logs and tooling show what
// actually backs the "device".
func probeDevice() *Device {
	return &Device{
		ID:       0,
		Name:     "virtual accelerator [" + simdLevel() + "]",
		TotalMem: systemMemory(),
		NumCores: runtime.NumCPU(),
		WarpSize: WarpSize,
	}
}

// simdLevel reports the widest SIMD extension of the backing CPU.
func simdLevel() string {
	switch {
	case cpu.X86.HasAVX512F:
		return "avx512"
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		return "avx2+fma"
	case cpu.X86.HasAVX:
		return "avx"
	case cpu.ARM64.HasASIMD:
		return "neon"
	default:
		return "scalar"
	}
}
