package solver

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofem3d/utils"
)

type Method uint8

const (
	// CG is a Jacobi-preconditioned conjugate gradient iteration over the
	// raw compressed-row arrays, the default for production meshes
	CG Method = iota
	// Cholesky is a dense direct factorization, suitable for small systems
	Cholesky
)

func NewMethod(name string) Method {
	switch strings.ToUpper(name) {
	case "", "CG":
		return CG
	case "CHOLESKY":
		return Cholesky
	default:
		err := fmt.Errorf("unknown solver method: %s", name)
		panic(err)
	}
}

type Options struct {
	Method        Method
	Tol           float64 // residual target, relative to max(1,||b||)
	MaxIterations int     // iteration budget for CG, 10*n when zero
}

func DefaultOptions() Options {
	return Options{
		Method: CG,
		Tol:    1.e-9,
	}
}

type SingularMatrixError struct {
	Row int // -1 when detected during factorization rather than structurally
}

func (e *SingularMatrixError) Error() string {
	if e.Row < 0 {
		return "matrix is not positive definite"
	}
	return fmt.Sprintf("matrix is structurally singular: row %d has no positive diagonal", e.Row)
}

type SolverDivergenceError struct {
	Iterations int
	Residual   float64
	Tol        float64
}

func (e *SolverDivergenceError) Error() string {
	return fmt.Sprintf("solver did not converge after %d iterations: residual %g, tolerance %g",
		e.Iterations, e.Residual, e.Tol)
}

// Solve solves A*u = b for a symmetric positive-definite A. Whatever the
// method, the returned field satisfies ||A*u-b|| <= Tol*max(1,||b||); a
// violation surfaces as a SolverDivergenceError, never silently.
func Solve(A utils.CSR, b utils.Vector, opts Options) (u utils.Vector, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc || b.Len() != nr {
		err = fmt.Errorf("dimension mismatch: A is (%d,%d), b is %d", nr, nc, b.Len())
		return
	}
	// SPD is an invariant of the assembled system, checked rather than
	// assumed
	var (
		raw  = A.RawMatrix()
		diag = A.Diagonal()
	)
	for i := 0; i < nr; i++ {
		if raw.Indptr[i] == raw.Indptr[i+1] || diag[i] <= 0 {
			err = &SingularMatrixError{Row: i}
			return
		}
	}
	switch opts.Method {
	case Cholesky:
		u, err = solveCholesky(A, b)
	case CG:
		fallthrough
	default:
		u, err = solveCG(A, b, diag, opts)
	}
	if err != nil {
		return
	}
	var (
		residual = A.MulVec(u).Subtract(b).Norm2()
		target   = opts.Tol * math.Max(1, b.Norm2())
	)
	if math.IsNaN(residual) || residual > target {
		err = &SolverDivergenceError{Iterations: opts.MaxIterations, Residual: residual, Tol: target}
	}
	return
}

func solveCG(A utils.CSR, b utils.Vector, diag []float64, opts Options) (u utils.Vector, err error) {
	var (
		n      = b.Len()
		maxIt  = opts.MaxIterations
		target = opts.Tol * math.Max(1, b.Norm2())
	)
	if maxIt <= 0 {
		maxIt = 10 * n
	}
	u = utils.NewVector(n)
	var (
		r = b.Copy()
		z = r.Copy()
		p = utils.NewVector(n)

		uD, rD, zD, pD = u.DataP(), r.DataP(), z.DataP(), p.DataP()
	)
	for i := 0; i < n; i++ {
		zD[i] = rD[i] / diag[i]
		pD[i] = zD[i]
	}
	rz := r.Dot(z)
	if r.Norm2() <= target {
		return // zero RHS or lucky start
	}
	for it := 1; it <= maxIt; it++ {
		Ap := A.MulVec(p)
		pAp := p.Dot(Ap)
		if pAp <= 0 || math.IsNaN(pAp) {
			err = &SolverDivergenceError{Iterations: it, Residual: r.Norm2(), Tol: target}
			return
		}
		var (
			alpha = rz / pAp
			apD   = Ap.DataP()
		)
		for i := 0; i < n; i++ {
			uD[i] += alpha * pD[i]
			rD[i] -= alpha * apD[i]
		}
		if r.Norm2() <= target {
			return
		}
		for i := 0; i < n; i++ {
			zD[i] = rD[i] / diag[i]
		}
		rzNext := r.Dot(z)
		beta := rzNext / rz
		for i := 0; i < n; i++ {
			pD[i] = zD[i] + beta*pD[i]
		}
		rz = rzNext
	}
	err = &SolverDivergenceError{Iterations: maxIt, Residual: r.Norm2(), Tol: target}
	return
}

func solveCholesky(A utils.CSR, b utils.Vector) (u utils.Vector, err error) {
	var (
		n, _ = A.Dims()
		chol mat.Cholesky
	)
	if ok := chol.Factorize(A.ToSymDense()); !ok {
		err = &SingularMatrixError{Row: -1}
		return
	}
	u = utils.NewVector(n)
	if serr := chol.SolveVecTo(u.V, b.V); serr != nil {
		err = &SingularMatrixError{Row: -1}
	}
	return
}
