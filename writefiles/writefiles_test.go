package writefiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/utils"
)

func TestPVDWriter(t *testing.T) {
	var (
		dir = t.TempDir()
		msh = mesh.UnitTet(30, 10)
	)
	w, err := NewPVDWriter(filepath.Join(dir, "solution.pvd"), msh)
	require.NoError(t, err)

	u0 := utils.NewVector(4)
	require.NoError(t, w.WriteSnapshot(u0, 0))
	u1 := utils.NewVector(4, []float64{1, 2, 3, 4})
	require.NoError(t, w.WriteSnapshot(u1, 100))
	require.NoError(t, w.Close())

	pvd, err := os.ReadFile(filepath.Join(dir, "solution.pvd"))
	require.NoError(t, err)
	content := string(pvd)
	assert.Contains(t, content, `type="Collection"`)
	assert.Contains(t, content, `timestep="0"`)
	assert.Contains(t, content, `file="solution_000000.vtu"`)
	assert.Contains(t, content, `timestep="100"`)
	assert.Contains(t, content, `file="solution_000001.vtu"`)
	// Step order preserved
	assert.True(t, strings.Index(content, "solution_000000.vtu") < strings.Index(content, "solution_000001.vtu"))

	vtu, err := os.ReadFile(filepath.Join(dir, "solution_000001.vtu"))
	require.NoError(t, err)
	vcontent := string(vtu)
	assert.Contains(t, vcontent, `type="UnstructuredGrid"`)
	assert.Contains(t, vcontent, `NumberOfPoints="4" NumberOfCells="1"`)
	assert.Contains(t, vcontent, `Name="u"`)
	assert.Contains(t, vcontent, "0 1 2 3") // tet connectivity
	assert.Contains(t, vcontent, "10")      // VTK_TETRA cell type
	for _, val := range []string{"1\n", "2\n", "3\n", "4\n"} {
		assert.Contains(t, vcontent, val)
	}
}

func TestMemoryWriterCopies(t *testing.T) {
	w := &Memory{}
	u := utils.NewVector(2, []float64{1, 2})
	require.NoError(t, w.WriteSnapshot(u, 5))
	u.Set(9) // mutating the source must not change the record
	require.Len(t, w.Snapshots, 1)
	assert.Equal(t, 5., w.Snapshots[0].T)
	assert.Equal(t, 1., w.Snapshots[0].U.AtVec(0))
	assert.Equal(t, 2., w.Snapshots[0].U.AtVec(1))
	require.NoError(t, w.Close())
}
