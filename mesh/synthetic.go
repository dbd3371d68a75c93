package mesh

import "github.com/notargets/gofem3d/utils"

// UnitTet builds the reference tetrahedron with vertices at the origin and
// the three unit axis points. The facet in the z=0 plane carries influxTag,
// the other three facets carry otherTag.
func UnitTet(influxTag, otherTag int) (msh *Mesh) {
	var (
		vx   = []float64{0, 1, 0, 0}
		vy   = []float64{0, 0, 1, 0}
		vz   = []float64{0, 0, 0, 1}
		etov = utils.Index{0, 1, 2, 3}
	)
	bfaces := []BoundaryFace{
		{V: [3]int{0, 1, 2}, Tag: influxTag},
		{V: [3]int{0, 1, 3}, Tag: otherTag},
		{V: [3]int{0, 2, 3}, Tag: otherTag},
		{V: [3]int{1, 2, 3}, Tag: otherTag},
	}
	msh, err := New(vx, vy, vz, etov, bfaces)
	if err != nil {
		panic(err)
	}
	return
}

// CubeFiveTets builds the unit cube split into five tetrahedra: four corner
// tets and one central tet. The two facets on the x=0 plane carry influxTag,
// the remaining ten carry otherTag, so the influx region has unit area.
func CubeFiveTets(influxTag, otherTag int) (msh *Mesh) {
	var (
		vx = []float64{0, 1, 0, 1, 0, 1, 0, 1}
		vy = []float64{0, 0, 1, 1, 0, 0, 1, 1}
		vz = []float64{0, 0, 0, 0, 1, 1, 1, 1}
		// Corner tets at vertices 0, 3, 5, 6 plus the central tet
		etov = utils.Index{
			0, 1, 2, 4,
			3, 1, 2, 7,
			5, 1, 4, 7,
			6, 2, 4, 7,
			1, 2, 4, 7,
		}
	)
	bfaces := []BoundaryFace{
		{V: [3]int{0, 2, 4}, Tag: influxTag}, // x=0
		{V: [3]int{2, 6, 4}, Tag: influxTag}, // x=0
		{V: [3]int{0, 1, 2}, Tag: otherTag},  // z=0
		{V: [3]int{3, 1, 2}, Tag: otherTag},  // z=0
		{V: [3]int{0, 1, 4}, Tag: otherTag},  // y=0
		{V: [3]int{5, 1, 4}, Tag: otherTag},  // y=0
		{V: [3]int{3, 1, 7}, Tag: otherTag},  // x=1
		{V: [3]int{5, 1, 7}, Tag: otherTag},  // x=1
		{V: [3]int{3, 2, 7}, Tag: otherTag},  // y=1
		{V: [3]int{6, 2, 7}, Tag: otherTag},  // y=1
		{V: [3]int{5, 4, 7}, Tag: otherTag},  // z=1
		{V: [3]int{6, 4, 7}, Tag: otherTag},  // z=1
	}
	msh, err := New(vx, vy, vz, etov, bfaces)
	if err != nil {
		panic(err)
	}
	return
}
