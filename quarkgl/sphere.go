package quarkgl

import "math"

// NewSphereMesh builds a UV sphere centered at the origin.
//
// Poles lie on ±Y. UV (0,0) maps to the top-left of an equirectangular texture.
// The mesh has (widthSeg+1)*(heightSeg+1) vertices, so the product must stay
// below 65536.
func NewSphereMesh(radius Scalar, widthSeg, heightSeg int) Mesh {
	if widthSeg < 3 {
		widthSeg = 3
	}
	if heightSeg < 2 {
		heightSeg = 2
	}

	verts := make([]Vertex, 0, (widthSeg+1)*(heightSeg+1))
	grid := make([][]uint16, heightSeg+1)

	for iy := 0; iy <= heightSeg; iy++ {
		v := Scalar(iy) / Scalar(heightSeg)
		row := make([]uint16, widthSeg+1)
		for ix := 0; ix <= widthSeg; ix++ {
			u := Scalar(ix) / Scalar(widthSeg)
			phi := float64(u) * 2 * math.Pi
			theta := float64(v) * math.Pi

			n := V3(
				Scalar(-math.Cos(phi)*math.Sin(theta)),
				Scalar(math.Cos(theta)),
				Scalar(math.Sin(phi)*math.Sin(theta)),
			)
			verts = append(verts, Vertex{
				Pos:    n.Mul(radius),
				Normal: n,
				UV:     [2]Scalar{u, v},
				Color:  RGB(0xFF, 0xFF, 0xFF),
			})
			row[ix] = uint16(len(verts) - 1)
		}
		grid[iy] = row
	}

	indices := make([]uint16, 0, widthSeg*heightSeg*6)
	for iy := 0; iy < heightSeg; iy++ {
		for ix := 0; ix < widthSeg; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSeg-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return Mesh{
		Vertices: verts,
		Indices:  indices,
		Parent:   -1,
	}
}
