package fem

import (
	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/utils"
)

// FunctionSpace maps the mesh topology to degrees of freedom for piecewise
// linear (P1 Lagrange) scalar fields: one DOF per vertex, DOF numbering
// identical to vertex numbering. The same ordering is used by the mesh, the
// assembler and the solver, so a field vector indexes directly by vertex.
type FunctionSpace struct {
	Mesh    *mesh.Mesh
	NumDofs int
}

func NewFunctionSpace(msh *mesh.Mesh) (fs *FunctionSpace) {
	fs = &FunctionSpace{
		Mesh:    msh,
		NumDofs: msh.NumVertices,
	}
	return
}

// ElementDofs returns the 4 global DOFs of element k in mesh vertex order.
func (fs *FunctionSpace) ElementDofs(k int) [4]int {
	return fs.Mesh.Elem(k)
}

// FaceDofs returns the 3 global DOFs of a boundary facet.
func (fs *FunctionSpace) FaceDofs(bf mesh.BoundaryFace) [3]int {
	return bf.V
}

// NewField allocates a zero field over the space.
func (fs *FunctionSpace) NewField() (u utils.Vector) {
	return utils.NewVector(fs.NumDofs)
}
