package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem3d/mesh"
)

// DOF indexing must agree between mesh, space and assembler: a misaligned
// map corrupts the simulation silently instead of crashing.
func TestDofIndexConsistency(t *testing.T) {
	msh := mesh.CubeFiveTets(30, 10)
	fs := NewFunctionSpace(msh)
	require.Equal(t, msh.NumVertices, fs.NumDofs)

	// Element DOFs are exactly the element's vertices, in mesh order
	for k := 0; k < msh.NumElements; k++ {
		assert.Equal(t, msh.Elem(k), fs.ElementDofs(k))
		for i, dof := range fs.ElementDofs(k) {
			assert.Equal(t, msh.EToV[4*k+i], dof)
		}
	}

	// Face DOFs are exactly the facet's vertices
	for _, bf := range msh.BFaces {
		assert.Equal(t, bf.V, fs.FaceDofs(bf))
		for _, dof := range fs.FaceDofs(bf) {
			assert.True(t, dof >= 0 && dof < fs.NumDofs)
		}
	}

	u := fs.NewField()
	assert.Equal(t, fs.NumDofs, u.Len())
}
