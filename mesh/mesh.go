package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gofem3d/utils"
)

// BoundaryFace is a triangular facet on the mesh surface, tagged with the
// integer marker of the physical region it belongs to.
type BoundaryFace struct {
	V   [3]int
	Tag int
}

// Mesh is an immutable tetrahedral mesh: vertex coordinates in column
// layout, flattened 4-per-element connectivity and tagged boundary facets.
type Mesh struct {
	VX, VY, VZ utils.Vector
	EToV       utils.Index // Element to vertex connectivity, 4 per element
	BFaces     []BoundaryFace

	NumVertices int
	NumElements int
}

type MeshLoadError struct {
	Path string
	Err  error
}

func (e *MeshLoadError) Error() string {
	return fmt.Sprintf("unable to load mesh from %q: %s", e.Path, e.Err.Error())
}

func (e *MeshLoadError) Unwrap() error { return e.Err }

// New builds a mesh from raw geometry and validates it: connectivity and
// facet indices must be in range and every boundary facet must coincide with
// a face of some element. The inputs are retained, not copied; callers hand
// over ownership.
func New(vx, vy, vz []float64, etov utils.Index, bfaces []BoundaryFace) (msh *Mesh, err error) {
	var (
		nVerts = len(vx)
	)
	if len(vy) != nVerts || len(vz) != nVerts {
		err = fmt.Errorf("coordinate arrays disagree in length: %d, %d, %d", nVerts, len(vy), len(vz))
		return
	}
	if len(etov)%4 != 0 {
		err = fmt.Errorf("element connectivity length %d is not a multiple of 4", len(etov))
		return
	}
	msh = &Mesh{
		VX:          utils.NewVector(nVerts, vx),
		VY:          utils.NewVector(nVerts, vy),
		VZ:          utils.NewVector(nVerts, vz),
		EToV:        etov,
		BFaces:      bfaces,
		NumVertices: nVerts,
		NumElements: len(etov) / 4,
	}
	if msh.NumElements == 0 {
		err = fmt.Errorf("mesh has no elements")
		msh = nil
		return
	}
	for i, v := range etov {
		if v < 0 || v >= nVerts {
			err = fmt.Errorf("element %d references vertex %d, out of range [0,%d)", i/4, v, nVerts)
			msh = nil
			return
		}
	}
	// Every boundary facet must be a face of some element, matched on sorted
	// vertex keys
	faceSet := make(map[string]bool)
	for k := 0; k < msh.NumElements; k++ {
		verts := msh.Elem(k)
		for _, face := range tetFaces(verts) {
			faceSet[faceKey(face)] = true
		}
	}
	for i, bf := range msh.BFaces {
		for _, v := range bf.V {
			if v < 0 || v >= nVerts {
				err = fmt.Errorf("boundary facet %d references vertex %d, out of range [0,%d)", i, v, nVerts)
				msh = nil
				return
			}
		}
		if !faceSet[faceKey(bf.V)] {
			err = fmt.Errorf("boundary facet %d %v is not a face of any element", i, bf.V)
			msh = nil
			return
		}
	}
	return
}

// tetFaces lists the four faces of a tetrahedron, face i opposite vertex i.
func tetFaces(verts [4]int) [4][3]int {
	return [4][3]int{
		{verts[1], verts[2], verts[3]},
		{verts[0], verts[2], verts[3]},
		{verts[0], verts[1], verts[3]},
		{verts[0], verts[1], verts[2]},
	}
}

func faceKey(face [3]int) string {
	sorted := []int{face[0], face[1], face[2]}
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted)
}

func (msh *Mesh) Vert(i int) (x, y, z float64) {
	return msh.VX.AtVec(i), msh.VY.AtVec(i), msh.VZ.AtVec(i)
}

func (msh *Mesh) Elem(k int) (verts [4]int) {
	for i := 0; i < 4; i++ {
		verts[i] = msh.EToV[4*k+i]
	}
	return
}

// FacesByTag returns the boundary facets carrying the given region tag, in
// mesh order.
func (msh *Mesh) FacesByTag(tag int) (faces []BoundaryFace) {
	for _, bf := range msh.BFaces {
		if bf.Tag == tag {
			faces = append(faces, bf)
		}
	}
	return
}

// BoundaryArea sums the areas of the facets carrying the given tag.
func (msh *Mesh) BoundaryArea(tag int) (area float64) {
	for _, bf := range msh.BFaces {
		if bf.Tag != tag {
			continue
		}
		x0, y0, z0 := msh.Vert(bf.V[0])
		x1, y1, z1 := msh.Vert(bf.V[1])
		x2, y2, z2 := msh.Vert(bf.V[2])
		ax, ay, az := x1-x0, y1-y0, z1-z0
		bx, by, bz := x2-x0, y2-y0, z2-z0
		cx, cy, cz := ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx
		area += 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
	}
	return
}

func (msh *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Vertices: %d\n", msh.NumVertices)
	fmt.Printf("  Elements: %d\n", msh.NumElements)
	fmt.Printf("  Boundary faces: %d\n", len(msh.BFaces))
	tagCounts := make(map[int]int)
	for _, bf := range msh.BFaces {
		tagCounts[bf.Tag]++
	}
	tags := make([]int, 0, len(tagCounts))
	for tag := range tagCounts {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	fmt.Printf("  Boundary tags:\n")
	for _, tag := range tags {
		fmt.Printf("    %d: %d faces, area %8.5f\n", tag, tagCounts[tag], msh.BoundaryArea(tag))
	}
}
