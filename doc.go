// Package tilegemm is a tiered dense matrix-multiplication kernel suite
// built on a CUDA-style execution model that runs on CPU goroutines.
//
// The package provides one CPU reference implementation and seven
// progressively optimized accelerator kernel variants, from a naive
// one-thread-per-element kernel up to a warp-level tensor-core style
// kernel built on fixed-shape MMA fragments. All variants sit behind a
// single dispatch operation that selects an implementation by algorithm
// tag and target device class:
//
//	ctx := tilegemm.NewContext()
//	a := tilegemm.NewMatrix[float32](m, k)
//	b := tilegemm.NewMatrix[float32](k, n)
//	c := tilegemm.NewMatrix[float32](m, n)
//	err := tilegemm.Execute(c, a, b, ctx, tilegemm.TargetGPU, tilegemm.AlgBlockTiled)
//
// The "device" is a software model of a GPU: a grid of independently
// scheduled blocks, each block a group of threads with block-local
// shared memory, an intra-block barrier, and asynchronous staging
// copies. Blocks are spread across CPU cores; threads of a cooperative
// block run as goroutines synchronized at explicit barriers only, which
// preserves the hazard structure the tiled kernels are written against.
package tilegemm
