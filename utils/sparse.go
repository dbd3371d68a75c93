package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps the map backed sparse matrix. Lookup and accumulation by (i,j)
// are cheap, iteration order is unspecified, so DOK serves as the reference
// accumulator in tests while Triplets/CSR serve the production assembly path.
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix      { return m.M.T() }

func (m DOK) Set(i, j int, val float64) { m.M.Set(i, j, val) }

// Add accumulates val into entry (i,j).
func (m DOK) Add(i, j int, val float64) {
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() CSR {
	return CSR{m.M.ToCSR()}
}

// Triplets is an append-only (row, col, value) arena. Duplicate coordinates
// are legal and sum on compaction, which is the natural fit for FEM scatter
// where element contributions overlap at shared vertices.
type Triplets struct {
	nr, nc         int
	rowInd, colInd []int
	vals           []float64
}

func NewTriplets(nr, nc int) (t *Triplets) {
	t = &Triplets{
		nr: nr,
		nc: nc,
	}
	return
}

func (t *Triplets) Len() int { return len(t.vals) }

func (t *Triplets) Append(i, j int, val float64) {
	if i < 0 || i >= t.nr || j < 0 || j >= t.nc {
		err := fmt.Errorf("triplet index out of range: (%d,%d), dims (%d,%d)\n", i, j, t.nr, t.nc)
		panic(err)
	}
	t.rowInd = append(t.rowInd, i)
	t.colInd = append(t.colInd, j)
	t.vals = append(t.vals, val)
}

// Merge appends all of o's triplets after t's, preserving o's order.
func (t *Triplets) Merge(o *Triplets) {
	if t.nr != o.nr || t.nc != o.nc {
		err := fmt.Errorf("triplet dims mismatch in Merge: (%d,%d) vs (%d,%d)\n", t.nr, t.nc, o.nr, o.nc)
		panic(err)
	}
	t.rowInd = append(t.rowInd, o.rowInd...)
	t.colInd = append(t.colInd, o.colInd...)
	t.vals = append(t.vals, o.vals...)
}

// ToCSR compacts the arena into compressed-row form. The sort is stable, so
// duplicates sum in append order and two identical arenas compact to
// bit-identical CSR storage.
func (t *Triplets) ToCSR() (R CSR) {
	var (
		nnzUpper = len(t.vals)
		ord      = make([]int, nnzUpper)
	)
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool {
		ia, ib := ord[a], ord[b]
		if t.rowInd[ia] != t.rowInd[ib] {
			return t.rowInd[ia] < t.rowInd[ib]
		}
		return t.colInd[ia] < t.colInd[ib]
	})
	var (
		ja           = make([]int, 0, nnzUpper)
		data         = make([]float64, 0, nnzUpper)
		ia           = make([]int, t.nr+1)
		lastR, lastC = -1, -1
	)
	for _, k := range ord {
		r, c, val := t.rowInd[k], t.colInd[k], t.vals[k]
		if r == lastR && c == lastC {
			data[len(data)-1] += val
			continue
		}
		ja = append(ja, c)
		data = append(data, val)
		ia[r+1]++
		lastR, lastC = r, c
	}
	for i := 0; i < t.nr; i++ {
		ia[i+1] += ia[i]
	}
	R = CSR{sparse.NewCSR(t.nr, t.nc, ia, ja, data)}
	return
}

type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix      { return m.M.T() }

func (m CSR) NNZ() int { return m.M.NNZ() }

func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

// MulVec computes y = A*x over the raw compressed-row arrays.
func (m CSR) MulVec(x Vector) (y Vector) {
	var (
		raw = m.M.RawMatrix()
		xD  = x.DataP()
	)
	if x.Len() != raw.J {
		err := fmt.Errorf("dimension mismatch in MulVec: A is (%d,%d), x is %d\n", raw.I, raw.J, x.Len())
		panic(err)
	}
	y = NewVector(raw.I)
	yD := y.DataP()
	for i := 0; i < raw.I; i++ {
		var sum float64
		for jp := raw.Indptr[i]; jp < raw.Indptr[i+1]; jp++ {
			sum += raw.Data[jp] * xD[raw.Ind[jp]]
		}
		yD[i] = sum
	}
	return
}

// Diagonal extracts the main diagonal, zero where no entry is stored.
func (m CSR) Diagonal() (d []float64) {
	var (
		raw = m.M.RawMatrix()
	)
	d = make([]float64, raw.I)
	for i := 0; i < raw.I; i++ {
		for jp := raw.Indptr[i]; jp < raw.Indptr[i+1]; jp++ {
			if raw.Ind[jp] == i {
				d[i] = raw.Data[jp]
				break
			}
		}
	}
	return
}

// ToSymDense copies the matrix into dense symmetric storage for the direct
// solver path. Only the upper triangle is read.
func (m CSR) ToSymDense() (S *mat.SymDense) {
	var (
		nr, _ = m.Dims()
		raw   = m.M.RawMatrix()
	)
	S = mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for jp := raw.Indptr[i]; jp < raw.Indptr[i+1]; jp++ {
			j := raw.Ind[jp]
			if j >= i {
				S.SetSym(i, j, raw.Data[jp])
			}
		}
	}
	return
}
