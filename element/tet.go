package element

import (
	"fmt"
	"math"
)

// DegenerateTol is the determinant guard below which an element is reported
// as degenerate rather than inverted into NaN/Inf gradients.
const DegenerateTol = 1.e-14

type DegenerateElementError struct {
	Elem    int // -1 when the offending element is not known to the caller
	Measure float64
}

func (e *DegenerateElementError) Error() string {
	return fmt.Sprintf("degenerate element %d: measure %g is below tolerance %g", e.Elem, e.Measure, DegenerateTol)
}

// TetGeometry computes the volume and the constant P1 shape function
// gradients of a tetrahedron from its vertex coordinates. The Jacobian
// columns are the edge vectors from vertex 0; the gradients of shape
// functions 1..3 are the rows of its inverse and gradient 0 closes the
// partition of unity.
func TetGeometry(x [4][3]float64) (vol float64, grads [4][3]float64, err error) {
	var (
		J [3][3]float64
	)
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			J[r][c] = x[c+1][r] - x[0][r]
		}
	}
	det := J[0][0]*(J[1][1]*J[2][2]-J[1][2]*J[2][1]) -
		J[0][1]*(J[1][0]*J[2][2]-J[1][2]*J[2][0]) +
		J[0][2]*(J[1][0]*J[2][1]-J[1][1]*J[2][0])
	vol = math.Abs(det) / 6
	if math.Abs(det) <= DegenerateTol {
		err = &DegenerateElementError{Elem: -1, Measure: vol}
		return
	}
	var inv [3][3]float64
	inv[0][0] = (J[1][1]*J[2][2] - J[1][2]*J[2][1]) / det
	inv[0][1] = (J[0][2]*J[2][1] - J[0][1]*J[2][2]) / det
	inv[0][2] = (J[0][1]*J[1][2] - J[0][2]*J[1][1]) / det
	inv[1][0] = (J[1][2]*J[2][0] - J[1][0]*J[2][2]) / det
	inv[1][1] = (J[0][0]*J[2][2] - J[0][2]*J[2][0]) / det
	inv[1][2] = (J[0][2]*J[1][0] - J[0][0]*J[1][2]) / det
	inv[2][0] = (J[1][0]*J[2][1] - J[1][1]*J[2][0]) / det
	inv[2][1] = (J[0][1]*J[2][0] - J[0][0]*J[2][1]) / det
	inv[2][2] = (J[0][0]*J[1][1] - J[0][1]*J[1][0]) / det
	for i := 1; i < 4; i++ {
		for d := 0; d < 3; d++ {
			grads[i][d] = inv[i-1][d]
		}
	}
	for d := 0; d < 3; d++ {
		grads[0][d] = -(grads[1][d] + grads[2][d] + grads[3][d])
	}
	return
}

// TetStiffness computes the local stiffness matrix, Vol*(grad_i . grad_j).
// The P1 gradients are constant so the one-point rule is exact.
func TetStiffness(vol float64, grads [4][3]float64) (K [4][4]float64) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			K[i][j] = vol * (grads[i][0]*grads[j][0] + grads[i][1]*grads[j][1] + grads[i][2]*grads[j][2])
		}
	}
	return
}

// TetMass computes the local consistent mass matrix in closed form,
// Vol/20*(1+delta_ij). Row sums are Vol/4 by partition of unity.
func TetMass(vol float64) (M [4][4]float64) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			M[i][j] = vol / 20
		}
		M[i][i] = vol / 10
	}
	return
}

// TetMassQuadrature computes the local mass matrix through a barycentric
// quadrature rule. With a degree-2-exact rule it reproduces TetMass to
// floating point tolerance.
func TetMassQuadrature(vol float64, rule TetRule) (M [4][4]float64) {
	for q := range rule.W {
		var (
			l = rule.Lambda[q]
			w = rule.W[q]
		)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				M[i][j] += vol * w * l[i] * l[j]
			}
		}
	}
	return
}
