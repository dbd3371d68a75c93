package element

import "fmt"

// TetRule holds symmetric quadrature points for the tetrahedron in
// barycentric coordinates, with weights normalized to sum to one so that
// Int_K f dx ~ Vol * sum_q w_q f(lambda_q).
type TetRule struct {
	Lambda [][4]float64
	W      []float64
}

// NewTetRule returns a rule exact for polynomials of the given degree.
func NewTetRule(degree int) (rule TetRule) {
	switch degree {
	case 0, 1:
		// 1 point rule (centroid)
		rule = TetRule{
			Lambda: [][4]float64{{0.25, 0.25, 0.25, 0.25}},
			W:      []float64{1},
		}
	case 2, 3:
		// 4 point rule, symmetric points near vertices
		a := 0.58541019662496845446
		b := 0.13819660112501051518
		rule = TetRule{
			Lambda: [][4]float64{
				{a, b, b, b},
				{b, a, b, b},
				{b, b, a, b},
				{b, b, b, a},
			},
			W: []float64{0.25, 0.25, 0.25, 0.25},
		}
	default:
		err := fmt.Errorf("no tetrahedron quadrature rule for degree %d", degree)
		panic(err)
	}
	return
}

// TriRule holds symmetric quadrature points for the triangle in barycentric
// coordinates, weights normalized to sum to one.
type TriRule struct {
	Lambda [][3]float64
	W      []float64
}

// NewTriRule returns a rule exact for polynomials of the given degree.
func NewTriRule(degree int) (rule TriRule) {
	switch degree {
	case 0, 1:
		// 1 point rule (centroid)
		third := 1.0 / 3.0
		rule = TriRule{
			Lambda: [][3]float64{{third, third, third}},
			W:      []float64{1},
		}
	case 2:
		// 3 point rule (edge midpoints)
		rule = TriRule{
			Lambda: [][3]float64{
				{0.5, 0.5, 0},
				{0, 0.5, 0.5},
				{0.5, 0, 0.5},
			},
			W: []float64{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0},
		}
	default:
		err := fmt.Errorf("no triangle quadrature rule for degree %d", degree)
		panic(err)
	}
	return
}
