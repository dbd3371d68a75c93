package mesh

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gofem3d/utils"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return ReadDolfinXML(filename)
	default:
		return nil, &MeshLoadError{filename, fmt.Errorf("unsupported mesh format: %s", ext)}
	}
}

/*
DOLFIN XML is the exchange format emitted by pygamer's writeDolfin and read
by dolfin.Mesh:

	<dolfin>
	  <mesh celltype="tetrahedron" dim="3">
	    <vertices size="N"> <vertex index="0" x="..." y="..." z="..."/> ... </vertices>
	    <cells size="M"> <tetrahedron index="0" v0="..." v1="..." v2="..." v3="..."/> ... </cells>
	    <domains>
	      <mesh_value_collection type="uint" dim="2" size="F">
	        <value cell_index="..." local_entity="..." value="..."/> ...
	      </mesh_value_collection>
	    </domains>
	  </mesh>
	</dolfin>

A dim-2 value row tags the facet of cell cell_index opposite local vertex
local_entity with the integer marker value.
*/
type dolfinFile struct {
	XMLName xml.Name   `xml:"dolfin"`
	Mesh    dolfinMesh `xml:"mesh"`
}

type dolfinMesh struct {
	CellType string `xml:"celltype,attr"`
	Dim      int    `xml:"dim,attr"`
	Vertices struct {
		Size     int            `xml:"size,attr"`
		Vertices []dolfinVertex `xml:"vertex"`
	} `xml:"vertices"`
	Cells struct {
		Size int         `xml:"size,attr"`
		Tets []dolfinTet `xml:"tetrahedron"`
	} `xml:"cells"`
	Domains struct {
		Collections []dolfinValueCollection `xml:"mesh_value_collection"`
	} `xml:"domains"`
}

type dolfinVertex struct {
	Index int     `xml:"index,attr"`
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Z     float64 `xml:"z,attr"`
}

type dolfinTet struct {
	Index int `xml:"index,attr"`
	V0    int `xml:"v0,attr"`
	V1    int `xml:"v1,attr"`
	V2    int `xml:"v2,attr"`
	V3    int `xml:"v3,attr"`
}

type dolfinValueCollection struct {
	Dim    int                 `xml:"dim,attr"`
	Values []dolfinTaggedEntry `xml:"value"`
}

type dolfinTaggedEntry struct {
	CellIndex   int `xml:"cell_index,attr"`
	LocalEntity int `xml:"local_entity,attr"`
	Value       int `xml:"value,attr"`
}

// ReadDolfinXML reads a DOLFIN XML tetrahedral mesh with facet region tags.
func ReadDolfinXML(filename string) (msh *Mesh, err error) {
	var (
		data []byte
		df   dolfinFile
	)
	if data, err = os.ReadFile(filename); err != nil {
		return nil, &MeshLoadError{filename, err}
	}
	if err = xml.Unmarshal(data, &df); err != nil {
		return nil, &MeshLoadError{filename, err}
	}
	dm := df.Mesh
	if dm.CellType != "tetrahedron" || dm.Dim != 3 {
		return nil, &MeshLoadError{filename,
			fmt.Errorf("expected a 3D tetrahedron mesh, got celltype %q dim %d", dm.CellType, dm.Dim)}
	}
	nVerts := len(dm.Vertices.Vertices)
	if nVerts == 0 || nVerts != dm.Vertices.Size {
		return nil, &MeshLoadError{filename,
			fmt.Errorf("vertex count %d disagrees with declared size %d", nVerts, dm.Vertices.Size)}
	}
	nElems := len(dm.Cells.Tets)
	if nElems == 0 || nElems != dm.Cells.Size {
		return nil, &MeshLoadError{filename,
			fmt.Errorf("cell count %d disagrees with declared size %d", nElems, dm.Cells.Size)}
	}
	var (
		vx   = make([]float64, nVerts)
		vy   = make([]float64, nVerts)
		vz   = make([]float64, nVerts)
		etov = utils.NewIndex(4 * nElems)
	)
	for _, v := range dm.Vertices.Vertices {
		if v.Index < 0 || v.Index >= nVerts {
			return nil, &MeshLoadError{filename,
				fmt.Errorf("vertex index %d out of range [0,%d)", v.Index, nVerts)}
		}
		vx[v.Index], vy[v.Index], vz[v.Index] = v.X, v.Y, v.Z
	}
	for _, tet := range dm.Cells.Tets {
		if tet.Index < 0 || tet.Index >= nElems {
			return nil, &MeshLoadError{filename,
				fmt.Errorf("cell index %d out of range [0,%d)", tet.Index, nElems)}
		}
		etov[4*tet.Index+0] = tet.V0
		etov[4*tet.Index+1] = tet.V1
		etov[4*tet.Index+2] = tet.V2
		etov[4*tet.Index+3] = tet.V3
	}
	var bfaces []BoundaryFace
	for _, coll := range dm.Domains.Collections {
		if coll.Dim != 2 { // facet markers only
			continue
		}
		for _, entry := range coll.Values {
			if entry.CellIndex < 0 || entry.CellIndex >= nElems {
				return nil, &MeshLoadError{filename,
					fmt.Errorf("facet marker references cell %d, out of range [0,%d)", entry.CellIndex, nElems)}
			}
			if entry.LocalEntity < 0 || entry.LocalEntity > 3 {
				return nil, &MeshLoadError{filename,
					fmt.Errorf("facet marker local entity %d out of range [0,4)", entry.LocalEntity)}
			}
			var verts [4]int
			for i := 0; i < 4; i++ {
				verts[i] = etov[4*entry.CellIndex+i]
			}
			bfaces = append(bfaces, BoundaryFace{
				V:   tetFaces(verts)[entry.LocalEntity],
				Tag: entry.Value,
			})
		}
	}
	if msh, err = New(vx, vy, vz, etov, bfaces); err != nil {
		return nil, &MeshLoadError{filename, err}
	}
	return
}
