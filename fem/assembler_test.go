package fem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofem3d/InputParameters"
	"github.com/notargets/gofem3d/element"
	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/utils"
)

func testParams() (prm *InputParameters.Parameters) {
	prm = &InputParameters.Parameters{
		D:         30,
		Tau:       500,
		Jin:       0.5,
		Dt:        100,
		FinalTime: 1000,
		MaxProcs:  2,
	}
	if err := prm.Validate(); err != nil {
		panic(err)
	}
	return
}

func TestAssembleMatrixSPD(t *testing.T) {
	msh := mesh.CubeFiveTets(30, 10)
	fs := NewFunctionSpace(msh)
	asm, err := NewAssembler(fs, testParams())
	require.NoError(t, err)

	A := asm.AssembleMatrix()
	n, _ := A.Dims()
	require.Equal(t, fs.NumDofs, n)

	// Symmetric
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, A.At(i, j), A.At(j, i), 1.e-13)
		}
	}
	// Positive definite: all eigenvalues > 0
	var eig mat.EigenSym
	require.True(t, eig.Factorize(A.ToSymDense(), false))
	for _, ev := range eig.Values(nil) {
		assert.True(t, ev > 0, "eigenvalue %g is not positive", ev)
	}
}

func TestAssembleMatchesReferenceAccumulation(t *testing.T) {
	var (
		msh = mesh.CubeFiveTets(30, 10)
		fs  = NewFunctionSpace(msh)
		prm = testParams()
	)
	asm, err := NewAssembler(fs, prm)
	require.NoError(t, err)
	A := asm.AssembleMatrix()

	// Serial DOK accumulation of the same weak form
	var (
		cMass  = 1 + prm.Dt/prm.Tau
		cStiff = prm.D * prm.Dt
		ref    = utils.NewDOK(fs.NumDofs, fs.NumDofs)
	)
	for k := 0; k < msh.NumElements; k++ {
		var x [4][3]float64
		for i, v := range msh.Elem(k) {
			x[i][0], x[i][1], x[i][2] = msh.Vert(v)
		}
		vol, grads, gerr := element.TetGeometry(x)
		require.NoError(t, gerr)
		var (
			M    = element.TetMass(vol)
			K    = element.TetStiffness(vol, grads)
			dofs = fs.ElementDofs(k)
		)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				ref.Add(dofs[i], dofs[j], cMass*M[i][j]+cStiff*K[i][j])
			}
		}
	}
	for i := 0; i < fs.NumDofs; i++ {
		for j := 0; j < fs.NumDofs; j++ {
			assert.InDelta(t, ref.At(i, j), A.At(i, j), 1.e-12)
		}
	}
}

func TestAssembleElementOrderInvariance(t *testing.T) {
	var (
		msh = mesh.CubeFiveTets(30, 10)
		prm = testParams()
		K   = msh.NumElements
	)
	// Same mesh with the element processing order reversed
	etov := utils.NewIndex(4 * K)
	for k := 0; k < K; k++ {
		rk := K - 1 - k
		for i := 0; i < 4; i++ {
			etov[4*k+i] = msh.EToV[4*rk+i]
		}
	}
	rev, err := mesh.New(
		append([]float64{}, msh.VX.DataP()...),
		append([]float64{}, msh.VY.DataP()...),
		append([]float64{}, msh.VZ.DataP()...),
		etov, msh.BFaces)
	require.NoError(t, err)

	var (
		fs1 = NewFunctionSpace(msh)
		fs2 = NewFunctionSpace(rev)
	)
	asm1, err := NewAssembler(fs1, prm)
	require.NoError(t, err)
	asm2, err := NewAssembler(fs2, prm)
	require.NoError(t, err)

	uPrev := utils.NewVectorConstant(fs1.NumDofs, 1.5)
	A1, b1, err := asm1.Assemble(uPrev)
	require.NoError(t, err)
	A2, b2, err := asm2.Assemble(uPrev)
	require.NoError(t, err)

	for i := 0; i < fs1.NumDofs; i++ {
		assert.InDelta(t, b1.AtVec(i), b2.AtVec(i), 1.e-9)
		for j := 0; j < fs1.NumDofs; j++ {
			assert.InDelta(t, A1.At(i, j), A2.At(i, j), 1.e-9)
		}
	}
}

func TestAssembleIdempotence(t *testing.T) {
	msh := mesh.CubeFiveTets(30, 10)
	fs := NewFunctionSpace(msh)
	asm, err := NewAssembler(fs, testParams())
	require.NoError(t, err)

	uPrev := utils.NewVectorConstant(fs.NumDofs, 0.7)
	A1, b1, err := asm.Assemble(uPrev)
	require.NoError(t, err)
	A2, b2, err := asm.Assemble(uPrev)
	require.NoError(t, err)

	// Pure function of its inputs: bit-identical storage
	assert.Equal(t, A1.RawMatrix().Indptr, A2.RawMatrix().Indptr)
	assert.Equal(t, A1.RawMatrix().Ind, A2.RawMatrix().Ind)
	assert.Equal(t, A1.RawMatrix().Data, A2.RawMatrix().Data)
	assert.Equal(t, b1.DataP(), b2.DataP())
}

func TestAssembleRHS(t *testing.T) {
	var (
		msh = mesh.UnitTet(30, 10)
		fs  = NewFunctionSpace(msh)
		prm = testParams()
	)
	asm, err := NewAssembler(fs, prm)
	require.NoError(t, err)

	// With u_n = 0 only the influx facet contributes: Dt*Jin*Area/3 on the
	// facet's three DOFs, nothing on the opposite vertex
	b := asm.AssembleRHS(fs.NewField())
	expect := prm.Dt * prm.Jin * 0.5 / 3
	for _, dof := range []int{0, 1, 2} {
		assert.InDelta(t, expect, b.AtVec(dof), 1.e-13)
	}
	assert.Equal(t, 0., b.AtVec(3))

	// With u_n = 1 the mass term adds Vol/4 per DOF (mass row sums)
	b = asm.AssembleRHS(utils.NewVectorConstant(fs.NumDofs, 1))
	vol := 1. / 6.
	for _, dof := range []int{0, 1, 2} {
		assert.InDelta(t, expect+vol/4, b.AtVec(dof), 1.e-13)
	}
	assert.InDelta(t, vol/4, b.AtVec(3), 1.e-13)
}

func TestAssemblerDegenerateElement(t *testing.T) {
	// Second element is flat: all four vertices in the z=0 plane
	vx := []float64{0, 1, 0, 0, 1}
	vy := []float64{0, 0, 1, 0, 1}
	vz := []float64{0, 0, 0, 1, 0}
	etov := utils.Index{0, 1, 2, 3, 0, 1, 2, 4}
	msh, err := mesh.New(vx, vy, vz, etov, []mesh.BoundaryFace{{V: [3]int{0, 1, 2}, Tag: 30}})
	require.NoError(t, err)

	_, err = NewAssembler(NewFunctionSpace(msh), testParams())
	require.Error(t, err)
	var dge *element.DegenerateElementError
	require.True(t, errors.As(err, &dge))
	assert.Equal(t, 1, dge.Elem)
}

func TestTotalMass(t *testing.T) {
	msh := mesh.CubeFiveTets(30, 10)
	fs := NewFunctionSpace(msh)
	asm, err := NewAssembler(fs, testParams())
	require.NoError(t, err)

	// Lumped integral of the unit field is the mesh volume
	assert.InDelta(t, 1.0, asm.TotalMass(utils.NewVectorConstant(fs.NumDofs, 1)), 1.e-13)
	assert.Equal(t, 0., asm.TotalMass(fs.NewField()))
}
