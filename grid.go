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

// Package bathymesh builds regular rectangular grids over geographic
// domains and populates them with depth values interpolated from scattered
// bathymetry surveys, for use as input meshes to wave and circulation
// models.
package bathymesh

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// CoordinateMode selects the semantic labels and configuration key names
// for grid coordinates. It does not apply any coordinate transform.
type CoordinateMode int

const (
	// Metric is a planar coordinate system with units of meters (e.g. UTM).
	Metric CoordinateMode = iota
	// Geographic is longitude/latitude in degrees.
	Geographic
)

func (m CoordinateMode) String() string {
	switch m {
	case Metric:
		return "metric"
	case Geographic:
		return "geographic"
	default:
		return fmt.Sprintf("CoordinateMode(%d)", int(m))
	}
}

// ParseCoordinateMode converts a configuration string to a CoordinateMode.
func ParseCoordinateMode(s string) (CoordinateMode, error) {
	switch s {
	case "metric", "utm", "UTM", "":
		return Metric, nil
	case "geographic", "lonlat", "LONLAT":
		return Geographic, nil
	default:
		return Metric, fmt.Errorf("bathymesh: unknown coordinate mode %q", s)
	}
}

// GridSpec describes a regular rectangular grid. It is a value type and is
// not modified after construction.
type GridSpec struct {
	Xo, Yo float64 // lower left corner of the grid
	Dx, Dy float64 // node spacing
	Nx, Ny int     // number of nodes along each axis

	Mode CoordinateMode
}

// NewGridSpec derives a grid from two corner points and node spacings.
// The corner points may be given in either order; the origin is the minimum
// corner. The node counts are the requested extents rounded to a whole
// number of spacings, so the actual extent may differ slightly from the
// requested one.
func NewGridSpec(x1, x2, y1, y2, dx, dy float64, mode CoordinateMode) (GridSpec, error) {
	s := GridSpec{
		Xo:   math.Min(x1, x2),
		Yo:   math.Min(y1, y2),
		Dx:   dx,
		Dy:   dy,
		Mode: mode,
	}
	width := math.Max(x1, x2) - s.Xo
	height := math.Max(y1, y2) - s.Yo
	if width <= 0 || height <= 0 {
		return GridSpec{}, fmt.Errorf("bathymesh: grid extent %g x %g: %w", width, height, ErrInvalidDomain)
	}
	if dx <= 0 || dy <= 0 {
		return GridSpec{}, fmt.Errorf("bathymesh: grid spacing %g x %g: %w", dx, dy, ErrInvalidDomain)
	}
	s.Nx = int(math.Round(width / dx))
	s.Ny = int(math.Round(height / dy))
	if s.Nx < 1 || s.Ny < 1 {
		return GridSpec{}, fmt.Errorf("bathymesh: grid of %d x %d nodes: %w", s.Nx, s.Ny, ErrInvalidDomain)
	}
	return s, nil
}

func (s GridSpec) validate() error {
	if s.Dx <= 0 || s.Dy <= 0 {
		return fmt.Errorf("bathymesh: grid spacing %g x %g: %w", s.Dx, s.Dy, ErrInvalidDomain)
	}
	if s.Nx < 1 || s.Ny < 1 {
		return fmt.Errorf("bathymesh: grid of %d x %d nodes: %w", s.Nx, s.Ny, ErrInvalidDomain)
	}
	return nil
}

// Lx returns the grid extent in the X direction.
func (s GridSpec) Lx() float64 { return float64(s.Nx) * s.Dx }

// Ly returns the grid extent in the Y direction.
func (s GridSpec) Ly() float64 { return float64(s.Ny) * s.Dy }

// Bounds returns the rectangular extent covered by the grid.
func (s GridSpec) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: s.Xo, Y: s.Yo},
		Max: geom.Point{X: s.Xo + s.Lx(), Y: s.Yo + s.Ly()},
	}
}

// NodeGrid holds the coordinates of every grid node as two dense arrays of
// shape [Ny][Nx]. Row 0 holds the maximum Y coordinate (north-up).
type NodeGrid struct {
	X, Y *sparse.DenseArray
}

// Shape returns the number of rows and columns in the grid.
func (g *NodeGrid) Shape() (ny, nx int) {
	return g.X.Shape[0], g.X.Shape[1]
}

// Point returns the coordinates of the node at row i, column j.
func (g *NodeGrid) Point(i, j int) geom.Point {
	return geom.Point{X: g.X.Get(i, j), Y: g.Y.Get(i, j)}
}

// Nodes materializes the grid node coordinates. The Y axis is generated
// ascending from the origin and then reversed row-wise, so that row 0 is the
// northmost row.
func (s GridSpec) Nodes() *NodeGrid {
	xs := make([]float64, s.Nx)
	ys := make([]float64, s.Ny)
	if s.Nx == 1 {
		xs[0] = s.Xo
	} else {
		floats.Span(xs, s.Xo, s.Xo+float64(s.Nx-1)*s.Dx)
	}
	if s.Ny == 1 {
		ys[0] = s.Yo
	} else {
		floats.Span(ys, s.Yo, s.Yo+float64(s.Ny-1)*s.Dy)
	}

	x := sparse.ZerosDense(s.Ny, s.Nx)
	y := sparse.ZerosDense(s.Ny, s.Nx)
	for i := 0; i < s.Ny; i++ {
		yv := ys[s.Ny-1-i]
		for j := 0; j < s.Nx; j++ {
			x.Set(xs[j], i, j)
			y.Set(yv, i, j)
		}
	}
	return &NodeGrid{X: x, Y: y}
}
