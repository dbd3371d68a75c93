package writefiles

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/utils"
)

// SnapshotWriter receives one (field, time) pair per timestep, in step order
// with monotonically increasing time.
type SnapshotWriter interface {
	WriteSnapshot(u utils.Vector, t float64) error
	Close() error
}

type pvdEntry struct {
	time float64
	file string
}

// PVDWriter accumulates a ParaView time-series collection: one ascii VTU
// UnstructuredGrid file per snapshot plus a PVD collection file referencing
// them. The collection is rewritten as steps land, so snapshots already
// emitted survive a mid-run failure.
type PVDWriter struct {
	msh     *mesh.Mesh
	dir     string
	base    string
	entries []pvdEntry
	step    int
}

func NewPVDWriter(path string, msh *mesh.Mesh) (w *PVDWriter, err error) {
	var (
		dir  = filepath.Dir(path)
		base = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w = &PVDWriter{
		msh:  msh,
		dir:  dir,
		base: base,
	}
	return
}

func (w *PVDWriter) WriteSnapshot(u utils.Vector, t float64) (err error) {
	vtuName := fmt.Sprintf("%s_%06d.vtu", w.base, w.step)
	if err = w.writeVTU(filepath.Join(w.dir, vtuName), u); err != nil {
		return
	}
	w.entries = append(w.entries, pvdEntry{time: t, file: vtuName})
	w.step++
	return w.writePVD()
}

func (w *PVDWriter) Close() error {
	if len(w.entries) == 0 {
		return w.writePVD()
	}
	return nil
}

func (w *PVDWriter) writePVD() (err error) {
	var f *os.File
	if f, err = os.Create(filepath.Join(w.dir, w.base+".pvd")); err != nil {
		return
	}
	defer f.Close()
	out := bufio.NewWriter(f)
	fmt.Fprintf(out, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(out, "<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n")
	fmt.Fprintf(out, "  <Collection>\n")
	for _, entry := range w.entries {
		fmt.Fprintf(out, "    <DataSet timestep=\"%.12g\" part=\"0\" file=\"%s\"/>\n", entry.time, entry.file)
	}
	fmt.Fprintf(out, "  </Collection>\n")
	fmt.Fprintf(out, "</VTKFile>\n")
	return out.Flush()
}

func (w *PVDWriter) writeVTU(path string, u utils.Vector) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer f.Close()
	var (
		out = bufio.NewWriter(f)
		msh = w.msh
	)
	fmt.Fprintf(out, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(out, "<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n")
	fmt.Fprintf(out, "  <UnstructuredGrid>\n")
	fmt.Fprintf(out, "    <Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", msh.NumVertices, msh.NumElements)
	fmt.Fprintf(out, "      <PointData Scalars=\"u\">\n")
	fmt.Fprintf(out, "        <DataArray type=\"Float64\" Name=\"u\" format=\"ascii\">\n")
	for _, val := range u.DataP() {
		fmt.Fprintf(out, "          %.12g\n", val)
	}
	fmt.Fprintf(out, "        </DataArray>\n")
	fmt.Fprintf(out, "      </PointData>\n")
	fmt.Fprintf(out, "      <Points>\n")
	fmt.Fprintf(out, "        <DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for i := 0; i < msh.NumVertices; i++ {
		x, y, z := msh.Vert(i)
		fmt.Fprintf(out, "          %.12g %.12g %.12g\n", x, y, z)
	}
	fmt.Fprintf(out, "        </DataArray>\n")
	fmt.Fprintf(out, "      </Points>\n")
	fmt.Fprintf(out, "      <Cells>\n")
	fmt.Fprintf(out, "        <DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for k := 0; k < msh.NumElements; k++ {
		verts := msh.Elem(k)
		fmt.Fprintf(out, "          %d %d %d %d\n", verts[0], verts[1], verts[2], verts[3])
	}
	fmt.Fprintf(out, "        </DataArray>\n")
	fmt.Fprintf(out, "        <DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for k := 0; k < msh.NumElements; k++ {
		fmt.Fprintf(out, "          %d\n", 4*(k+1))
	}
	fmt.Fprintf(out, "        </DataArray>\n")
	fmt.Fprintf(out, "        <DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for k := 0; k < msh.NumElements; k++ {
		fmt.Fprintf(out, "          10\n") // VTK_TETRA
	}
	fmt.Fprintf(out, "        </DataArray>\n")
	fmt.Fprintf(out, "      </Cells>\n")
	fmt.Fprintf(out, "    </Piece>\n")
	fmt.Fprintf(out, "  </UnstructuredGrid>\n")
	fmt.Fprintf(out, "</VTKFile>\n")
	return out.Flush()
}

// Snapshot is one recorded (field, time) pair.
type Snapshot struct {
	T float64
	U utils.Vector
}

// Memory records snapshots in memory for tests, value copies not aliases.
type Memory struct {
	Snapshots []Snapshot
}

func (w *Memory) WriteSnapshot(u utils.Vector, t float64) error {
	w.Snapshots = append(w.Snapshots, Snapshot{T: t, U: u.Copy()})
	return nil
}

func (w *Memory) Close() error { return nil }
