package tilegemm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixAccessors(t *testing.T) {
	m := NewMatrix[float32](3, 4)
	require.Equal(t, 4, m.Stride)
	require.Len(t, m.Data, 12)

	m.Set(1, 2, 7.5)
	assert.Equal(t, float32(7.5), m.At(1, 2))
	assert.Equal(t, float32(7.5), m.Row(1)[2])

	m.Fill(2)
	for _, v := range m.Data {
		require.Equal(t, float32(2), v)
	}
}

func TestMatrixFromSlice(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	m := MatrixFromSlice(2, 3, data)
	assert.Equal(t, 6.0, m.At(1, 2))
	m.Set(0, 0, 9)
	assert.Equal(t, 9.0, data[0], "wrapping must not copy")
}

func TestTileIsAView(t *testing.T) {
	m := NewMatrix[float32](6, 8)
	for r := 0; r < 6; r++ {
		for c := 0; c < 8; c++ {
			m.Set(r, c, float32(r*10+c))
		}
	}
	w := m.Tile(2, 3, 3, 4)
	require.Equal(t, 3, w.Rows)
	require.Equal(t, 4, w.Cols)
	require.Equal(t, m.Stride, w.Stride)
	assert.Equal(t, float32(23), w.At(0, 0))
	assert.Equal(t, float32(46), w.At(2, 3))

	w.Set(1, 1, -1)
	assert.Equal(t, float32(-1), m.At(3, 4), "tile must share the parent buffer")
}

func TestLayoutDescriptor(t *testing.T) {
	m := NewMatrix[float32](5, 7)
	l := m.Layout()
	assert.Equal(t, 5, l.Rows)
	assert.Equal(t, 7, l.Cols)
	assert.Equal(t, 7, l.RowStride)
	assert.Equal(t, 1, l.ColStride)
	assert.False(t, l.Transposed())

	staged := Layout{Rows: 8, Cols: 64, RowStride: 1, ColStride: 64}
	assert.True(t, staged.Transposed())
}
