package tilegemm

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// Device describes the simulated accelerator. There is exactly one per
// Context: the host CPU dressed up with a GPU-shaped execution model.
type Device struct {
	ID       int    // Device identifier, always 0
	Name     string // Human-readable device name
	TotalMem uint64 // Total available memory in bytes
	NumCores int    // Number of CPU cores backing the device
	WarpSize int    // Threads per warp (lockstep sub-group)
}

// String returns a one-line device description.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%d cores, %s, warp %d)",
		d.Name, d.NumCores, humanize.IBytes(d.TotalMem), d.WarpSize)
}

// Context is an execution context for kernel launches. It owns the
// device handle, the launch worker budget, and the stream set. A nil
// device means no accelerator is present; only the CPU path works then.
type Context struct {
	device        *Device
	workers       int
	streams       map[int]*Stream
	streamID      int32
	defaultStream *Stream
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithoutAccelerator builds a Context with no accelerator device.
// Launches targeting the GPU class fail with DeviceUnavailable.
func WithoutAccelerator() Option {
	return func(ctx *Context) { ctx.device = nil }
}

// WithWorkers caps the number of blocks executed concurrently.
func WithWorkers(n int) Option {
	return func(ctx *Context) {
		if n > 0 {
			ctx.workers = n
		}
	}
}

// NewContext creates an execution context with the probed device and a
// default stream.
//
// Example:
//
//	ctx := tilegemm.NewContext()
//	defer ctx.Synchronize()
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		device:  probeDevice(),
		workers: runtime.NumCPU(),
		streams: make(map[int]*Stream),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.defaultStream = ctx.CreateStream()
	return ctx
}

// Device returns the accelerator handle, or nil when the context was
// built without one.
func (ctx *Context) Device() *Device {
	return ctx.device
}

// CreateStream creates a new execution stream. Operations within a
// stream execute in order; operations in different streams may execute
// concurrently.
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go stream.worker()
	ctx.streams[id] = stream
	return stream
}

// Synchronize waits for all streams to drain.
func (ctx *Context) Synchronize() error {
	for _, stream := range ctx.streams {
		stream.Synchronize()
	}
	return nil
}

// Stream is an ordered sequence of asynchronously executed operations.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Submit adds a task to the stream.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize waits for all tasks in the stream to complete.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Dim3 is a 3D extent for grid and block launch geometry.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements covered by the extent.
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// ThreadID identifies a thread's position within the execution
// hierarchy, mirroring the blockIdx/threadIdx/blockDim/gridDim scheme.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Linear returns the linearized thread index within the block.
func (tid ThreadID) Linear() int {
	return (tid.ThreadIdx.Z*tid.BlockDim.Y+tid.ThreadIdx.Y)*tid.BlockDim.X + tid.ThreadIdx.X
}

// linearTo3D converts a linear index to 3D coordinates within dim.
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
