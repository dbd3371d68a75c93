package element

import "math"

// TriArea computes the area of a boundary facet from its vertex coordinates
// via the cross product of two edge vectors.
func TriArea(x [3][3]float64) (area float64, err error) {
	var (
		ax, ay, az = x[1][0] - x[0][0], x[1][1] - x[0][1], x[1][2] - x[0][2]
		bx, by, bz = x[2][0] - x[0][0], x[2][1] - x[0][1], x[2][2] - x[0][2]
	)
	cx := ay*bz - az*by
	cy := az*bx - ax*bz
	cz := ax*by - ay*bx
	area = 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
	if area <= DegenerateTol {
		err = &DegenerateElementError{Elem: -1, Measure: area}
	}
	return
}

// TriLoad computes the local load vector of a constant unit flux over a
// facet, Area/3 per shape function. The centroid rule is exact for P1.
func TriLoad(area float64) (b [3]float64) {
	for i := 0; i < 3; i++ {
		b[i] = area / 3
	}
	return
}

// TriLoadQuadrature computes the same load vector through a barycentric
// facet quadrature rule.
func TriLoadQuadrature(area float64, rule TriRule) (b [3]float64) {
	for q := range rule.W {
		for i := 0; i < 3; i++ {
			b[i] += area * rule.W[q] * rule.Lambda[q][i]
		}
	}
	return
}
