package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripletsToCSR(t *testing.T) {
	tr := NewTriplets(3, 3)
	// Out of order appends with a duplicate at (1,1)
	tr.Append(2, 0, 5)
	tr.Append(0, 0, 1)
	tr.Append(1, 1, 2)
	tr.Append(1, 1, 3)
	tr.Append(0, 2, 4)
	A := tr.ToCSR()
	nr, nc := A.Dims()
	require.Equal(t, 3, nr)
	require.Equal(t, 3, nc)
	assert.Equal(t, 1., A.At(0, 0))
	assert.Equal(t, 4., A.At(0, 2))
	assert.Equal(t, 5., A.At(1, 1)) // duplicates summed
	assert.Equal(t, 5., A.At(2, 0))
	assert.Equal(t, 0., A.At(2, 2))
	assert.Equal(t, 4, A.NNZ())

	// Compaction is deterministic: same arena compacts to identical storage
	B := tr.ToCSR()
	assert.Equal(t, A.RawMatrix().Indptr, B.RawMatrix().Indptr)
	assert.Equal(t, A.RawMatrix().Ind, B.RawMatrix().Ind)
	assert.Equal(t, A.RawMatrix().Data, B.RawMatrix().Data)

	// Matches the DOK reference accumulation entry by entry
	dok := NewDOK(3, 3)
	dok.Add(2, 0, 5)
	dok.Add(0, 0, 1)
	dok.Add(1, 1, 2)
	dok.Add(1, 1, 3)
	dok.Add(0, 2, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, dok.At(i, j), A.At(i, j))
		}
	}
}

func TestCSRMulVecAndDiagonal(t *testing.T) {
	tr := NewTriplets(2, 2)
	tr.Append(0, 0, 2)
	tr.Append(0, 1, 1)
	tr.Append(1, 0, 1)
	tr.Append(1, 1, 3)
	A := tr.ToCSR()
	x := NewVector(2, []float64{1, 2})
	y := A.MulVec(x)
	assert.Equal(t, 4., y.AtVec(0))
	assert.Equal(t, 7., y.AtVec(1))
	assert.Equal(t, []float64{2, 3}, A.Diagonal())

	S := A.ToSymDense()
	assert.Equal(t, 2., S.At(0, 0))
	assert.Equal(t, 1., S.At(0, 1))
	assert.Equal(t, 1., S.At(1, 0))
	assert.Equal(t, 3., S.At(1, 1))
}

func TestTripletsMerge(t *testing.T) {
	a := NewTriplets(2, 2)
	a.Append(0, 0, 1)
	b := NewTriplets(2, 2)
	b.Append(0, 0, 2)
	b.Append(1, 1, 3)
	a.Merge(b)
	assert.Equal(t, 3, a.Len())
	A := a.ToCSR()
	assert.Equal(t, 3., A.At(0, 0))
	assert.Equal(t, 3., A.At(1, 1))
}
