package fem

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/gofem3d/InputParameters"
	"github.com/notargets/gofem3d/element"
	"github.com/notargets/gofem3d/utils"
)

type influxFace struct {
	dofs [3]int
	area float64
}

// Assembler builds the global system of the implicit Euler step for the
// reaction-diffusion weak form:
//
//	A[i][j] = (1+Dt/Tau)*M[i][j] + D*Dt*K[i][j]
//	b[i]    = Dt*Jin*Load[i] over influx facets + (M*u_n)[i]
//
// Element geometry is computed once at construction; Assemble is then a pure
// function of u_n, so repeated calls with the same input produce bit
// identical systems.
type Assembler struct {
	FS  *FunctionSpace
	Prm *InputParameters.Parameters

	pm     *utils.PartitionMap
	vols   []float64
	grads  [][4][3]float64
	influx []influxFace
}

// NewAssembler precomputes the per-element volumes and shape gradients,
// surfacing a DegenerateElementError carrying the offending element index.
func NewAssembler(fs *FunctionSpace, prm *InputParameters.Parameters) (asm *Assembler, err error) {
	var (
		msh = fs.Mesh
		K   = msh.NumElements
		NP  = max(1, min(prm.MaxProcs, K))
	)
	asm = &Assembler{
		FS:    fs,
		Prm:   prm,
		pm:    utils.NewPartitionMap(NP, K),
		vols:  make([]float64, K),
		grads: make([][4][3]float64, K),
	}
	for k := 0; k < K; k++ {
		var x [4][3]float64
		for i, v := range msh.Elem(k) {
			x[i][0], x[i][1], x[i][2] = msh.Vert(v)
		}
		if asm.vols[k], asm.grads[k], err = element.TetGeometry(x); err != nil {
			var dge *element.DegenerateElementError
			if errors.As(err, &dge) {
				dge.Elem = k
			}
			return nil, err
		}
	}
	for _, bf := range msh.FacesByTag(prm.InfluxTag) {
		var x [3][3]float64
		for i, v := range bf.V {
			x[i][0], x[i][1], x[i][2] = msh.Vert(v)
		}
		area, aerr := element.TriArea(x)
		if aerr != nil {
			return nil, aerr
		}
		asm.influx = append(asm.influx, influxFace{dofs: fs.FaceDofs(bf), area: area})
	}
	return
}

// Assemble builds the step system for the previous field u_n.
func (asm *Assembler) Assemble(uPrev utils.Vector) (A utils.CSR, b utils.Vector, err error) {
	if uPrev.Len() != asm.FS.NumDofs {
		err = fmt.Errorf("field length %d does not match DOF count %d", uPrev.Len(), asm.FS.NumDofs)
		return
	}
	A = asm.AssembleMatrix()
	b = asm.AssembleRHS(uPrev)
	return
}

// AssembleMatrix builds the bilinear form matrix. Elements are sharded
// across goroutines; each worker scatters into a private triplet arena and
// the arenas merge in worker order, so the accumulation order is fixed for a
// given MaxProcs.
func (asm *Assembler) AssembleMatrix() (A utils.CSR) {
	var (
		n      = asm.FS.NumDofs
		NP     = asm.pm.ParallelDegree
		cMass  = 1 + asm.Prm.Dt/asm.Prm.Tau
		cStiff = asm.Prm.D * asm.Prm.Dt
		arenas = make([]*utils.Triplets, NP)
		wg     = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := asm.pm.GetBucketRange(np)
			tr := utils.NewTriplets(n, n)
			for k := kMin; k < kMax; k++ {
				var (
					dofs = asm.FS.ElementDofs(k)
					M    = element.TetMass(asm.vols[k])
					K    = element.TetStiffness(asm.vols[k], asm.grads[k])
				)
				for i := 0; i < 4; i++ {
					for j := 0; j < 4; j++ {
						tr.Append(dofs[i], dofs[j], cMass*M[i][j]+cStiff*K[i][j])
					}
				}
			}
			arenas[np] = tr
		}(np)
	}
	wg.Wait()
	all := utils.NewTriplets(n, n)
	for np := 0; np < NP; np++ {
		all.Merge(arenas[np])
	}
	A = all.ToCSR()
	return
}

// AssembleRHS builds the linear form vector for the previous field u_n:
// the mass term over sharded elements with private buffers merged in worker
// order, then the influx loading in facet order. Facets with other tags
// contribute nothing (homogeneous Neumann).
func (asm *Assembler) AssembleRHS(uPrev utils.Vector) (b utils.Vector) {
	var (
		n       = asm.FS.NumDofs
		NP      = asm.pm.ParallelDegree
		uD      = uPrev.DataP()
		buffers = make([][]float64, NP)
		wg      = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := asm.pm.GetBucketRange(np)
			buf := make([]float64, n)
			for k := kMin; k < kMax; k++ {
				var (
					dofs = asm.FS.ElementDofs(k)
					M    = element.TetMass(asm.vols[k])
				)
				for i := 0; i < 4; i++ {
					var sum float64
					for j := 0; j < 4; j++ {
						sum += M[i][j] * uD[dofs[j]]
					}
					buf[dofs[i]] += sum
				}
			}
			buffers[np] = buf
		}(np)
	}
	wg.Wait()
	b = utils.NewVector(n)
	bD := b.DataP()
	for np := 0; np < NP; np++ {
		for i, val := range buffers[np] {
			bD[i] += val
		}
	}
	scale := asm.Prm.Dt * asm.Prm.Jin
	for _, face := range asm.influx {
		load := element.TriLoad(face.area)
		for i := 0; i < 3; i++ {
			bD[face.dofs[i]] += scale * load[i]
		}
	}
	return
}

// TotalMass computes the lumped-mass integral of a field over the mesh,
// Sum_K (V_K/4)*Sum_i u|K.
func (asm *Assembler) TotalMass(u utils.Vector) (mass float64) {
	var (
		uD = u.DataP()
	)
	for k := 0; k < asm.FS.Mesh.NumElements; k++ {
		var sum float64
		for _, dof := range asm.FS.ElementDofs(k) {
			sum += uD[dof]
		}
		mass += asm.vols[k] / 4 * sum
	}
	return
}
