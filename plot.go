/*
Copyright © 2024 the BathyMesh authors.
This file is part of BathyMesh.

BathyMesh is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BathyMesh is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BathyMesh.  If not, see <http://www.gnu.org/licenses/>.
*/

package bathymesh

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/plot/plotter"
)

// elevationView adapts a computed depth field to plotter.GridXYZ, with the
// sign flipped (depth below datum becomes negative elevation) and missing
// data returned as NaN. Row index 0 of the view is the southmost row, as
// the plotters expect ascending Y.
type elevationView struct {
	spec  GridSpec
	depth sparseGetter
}

type sparseGetter interface {
	Get(index ...int) float64
}

func (v elevationView) Dims() (c, r int) { return v.spec.Nx, v.spec.Ny }

func (v elevationView) X(c int) float64 { return v.spec.Xo + float64(c)*v.spec.Dx }

func (v elevationView) Y(r int) float64 { return v.spec.Yo + float64(r)*v.spec.Dy }

func (v elevationView) Z(c, r int) float64 {
	d := v.depth.Get(v.spec.Ny-1-r, c)
	if d == 0 || math.IsNaN(d) {
		return math.NaN()
	}
	return -d
}

// Elevation returns a sign-flipped view of the computed depth field for
// rendering: elevation relative to the datum, NaN where depth is missing or
// zero. The view satisfies gonum/plot's plotter.GridXYZ.
func (m *Mesh) Elevation() (plotter.GridXYZ, error) {
	if m.state != meshComputed {
		return nil, fmt.Errorf("bathymesh: mesh %s has no depth field: %w", m.Key, ErrNotReady)
	}
	return ElevationGrid(m.spec, m.depth), nil
}

// ElevationGrid is the sign-flipped rendering view over an arbitrary depth
// field with the given grid, for callers that load saved depth tables
// instead of holding a computed Mesh.
func ElevationGrid(spec GridSpec, depth *sparse.DenseArray) plotter.GridXYZ {
	return elevationView{spec: spec, depth: depth}
}

// AxisLabels returns the X and Y axis labels appropriate for the
// coordinate mode.
func (m CoordinateMode) AxisLabels() (x, y string) {
	if m == Geographic {
		return "Lon (º)", "Lat (º)"
	}
	return "X (m)", "Y (m)"
}

// AxisLabels returns the X and Y axis labels appropriate for the mesh
// coordinate mode.
func (m *Mesh) AxisLabels() (x, y string) { return m.Mode.AxisLabels() }
