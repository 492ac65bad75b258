package tilegemm

// Float constrains the element types the kernel suite operates on.
// Both operands and the output must share one element type.
type Float interface {
	~float32 | ~float64
}

// Matrix is a dense, logically row-major matrix view over a flat
// buffer. Stride is the distance in elements between the starts of
// consecutive rows, so a Matrix can describe a full buffer or a
// rectangular window into one.
type Matrix[T Float] struct {
	Rows, Cols int
	Stride     int
	Data       []T
}

// NewMatrix allocates a rows×cols matrix with a tight stride.
func NewMatrix[T Float](rows, cols int) Matrix[T] {
	return Matrix[T]{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]T, rows*cols),
	}
}

// MatrixFromSlice wraps an existing row-major buffer. The buffer must
// hold at least rows*cols elements.
func MatrixFromSlice[T Float](rows, cols int, data []T) Matrix[T] {
	return Matrix[T]{Rows: rows, Cols: cols, Stride: cols, Data: data}
}

// At returns the element at (r, c).
func (m Matrix[T]) At(r, c int) T {
	return m.Data[r*m.Stride+c]
}

// Set stores v at (r, c).
func (m Matrix[T]) Set(r, c int, v T) {
	m.Data[r*m.Stride+c] = v
}

// Row returns the r-th row as a slice sharing the underlying buffer.
func (m Matrix[T]) Row(r int) []T {
	return m.Data[r*m.Stride : r*m.Stride+m.Cols]
}

// Tile returns a rows×cols window starting at (r, c). The window is a
// view: it shares the underlying buffer and keeps the parent stride.
func (m Matrix[T]) Tile(r, c, rows, cols int) Matrix[T] {
	return Matrix[T]{
		Rows:   rows,
		Cols:   cols,
		Stride: m.Stride,
		Data:   m.Data[r*m.Stride+c:],
	}
}

// Layout describes the physical placement of a matrix: shape plus
// strides, distinct from the matrix's logical row-major orientation.
// Staged scratch tiles may be held transposed; their Layout says so.
type Layout struct {
	Rows, Cols           int
	RowStride, ColStride int
}

// Layout returns the physical layout descriptor of the view.
func (m Matrix[T]) Layout() Layout {
	return Layout{Rows: m.Rows, Cols: m.Cols, RowStride: m.Stride, ColStride: 1}
}

// Transposed reports whether the layout stores columns contiguously.
func (l Layout) Transposed() bool {
	return l.ColStride > l.RowStride
}

// Fill sets every element of the view to v.
func (m Matrix[T]) Fill(v T) {
	for r := 0; r < m.Rows; r++ {
		row := m.Row(r)
		for i := range row {
			row[i] = v
		}
	}
}
