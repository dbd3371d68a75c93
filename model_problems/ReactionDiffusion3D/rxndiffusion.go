package ReactionDiffusion3D

import (
	"fmt"
	"math"

	"github.com/notargets/gofem3d/InputParameters"
	"github.com/notargets/gofem3d/fem"
	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/solver"
	"github.com/notargets/gofem3d/utils"
	"github.com/notargets/gofem3d/writefiles"
)

type State uint8

const (
	Initialized State = iota
	Stepping
	Completed
)

// StepError wraps a failure inside one timestep with the step and simulated
// time it occurred at. A failed step is fatal to the run: no snapshot is
// emitted for it and no further steps execute.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t = %g) failed: %s", e.Step, e.Time, e.Err.Error())
}

func (e *StepError) Unwrap() error { return e.Err }

// RxnDiffusion drives the implicit Euler time loop for the reaction
// diffusion model: per step assemble the system for the previous field,
// solve, emit a snapshot and copy current into previous. The two fields are
// named buffers with explicit value copies, never aliases.
type RxnDiffusion struct {
	Mesh   *mesh.Mesh
	Prm    *InputParameters.Parameters
	FS     *fem.FunctionSpace
	Asm    *fem.Assembler
	Writer writefiles.SnapshotWriter

	U, UPrev utils.Vector

	// The bilinear form is time invariant in this model, so the assembled
	// matrix is cached from the first step unless RebuildEachStep asks for
	// the literal rebuild. Assembly is pure, both modes produce identical
	// systems.
	A     utils.CSR
	haveA bool
	opts  solver.Options

	Time    float64
	StepNum int
	NSteps  int
	state   State
}

func New(msh *mesh.Mesh, prm *InputParameters.Parameters, writer writefiles.SnapshotWriter) (c *RxnDiffusion, err error) {
	if err = prm.Validate(); err != nil {
		return
	}
	fs := fem.NewFunctionSpace(msh)
	var asm *fem.Assembler
	if asm, err = fem.NewAssembler(fs, prm); err != nil {
		return nil, err
	}
	c = &RxnDiffusion{
		Mesh:   msh,
		Prm:    prm,
		FS:     fs,
		Asm:    asm,
		Writer: writer,
		U:      fs.NewField(),
		UPrev:  fs.NewField(), // initial condition u = 0
		// The step count is fixed at initialization, not recomputed from
		// elapsed time, avoiding floating point drift across the loop
		NSteps: int(math.Ceil(prm.FinalTime / prm.Dt)),
		opts: solver.Options{
			Method:        solver.NewMethod(prm.SolverMethod),
			Tol:           prm.SolverTol,
			MaxIterations: prm.MaxIterations,
		},
	}
	return
}

func (c *RxnDiffusion) State() State { return c.state }

// Run executes all steps, writing the initial condition snapshot first.
func (c *RxnDiffusion) Run() (err error) {
	fmt.Printf("FinalTime = %8.4f, Nsteps = %d, dt = %8.6f\n", c.Prm.FinalTime, c.NSteps, c.Prm.Dt)
	if err = c.Writer.WriteSnapshot(c.UPrev, 0); err != nil {
		return
	}
	c.state = Stepping
	for c.StepNum < c.NSteps {
		if err = c.Advance(); err != nil {
			return
		}
	}
	c.state = Completed
	return
}

// Advance executes one implicit Euler step.
func (c *RxnDiffusion) Advance() (err error) {
	var (
		step = c.StepNum + 1
		t    = c.Time + c.Prm.Dt
	)
	if !c.haveA || c.Prm.RebuildEachStep {
		c.A = c.Asm.AssembleMatrix()
		c.haveA = true
	}
	b := c.Asm.AssembleRHS(c.UPrev)
	u, serr := solver.Solve(c.A, b, c.opts)
	if serr != nil {
		return &StepError{Step: step, Time: t, Err: serr}
	}
	c.U.CopyFrom(u)
	if werr := c.Writer.WriteSnapshot(c.U, t); werr != nil {
		return &StepError{Step: step, Time: t, Err: werr}
	}
	c.UPrev.CopyFrom(c.U)
	c.Time = t
	c.StepNum = step
	if step%c.Prm.LogFrequency == 0 {
		fmt.Printf("Time = %8.4f, step %d/%d, max(u) = %10.8f, mass = %10.8f\n",
			t, step, c.NSteps, c.U.Max(), c.TotalMass(c.U))
	}
	return
}

// TotalMass is the integral of the field over the mesh; exact for P1.
func (c *RxnDiffusion) TotalMass(u utils.Vector) float64 {
	return c.Asm.TotalMass(u)
}
