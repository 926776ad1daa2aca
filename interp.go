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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
	"github.com/fogleman/delaunay"
)

// barycentricTol is the tolerance for deciding that a query point lies
// inside a triangle. It absorbs floating-point error for points exactly on
// a triangle edge or vertex.
const barycentricTol = 1e-10

// triangle is one Delaunay triangle, indexed by the sample numbers of its
// vertices. The embedded single-ring polygon holds the vertex geometry and
// satisfies geom.Geom for rtree indexing.
type triangle struct {
	geom.Polygon
	v [3]int // sample indices of the vertices
}

// Triangulation is a Delaunay triangulation of a set of scattered sample
// locations, with a spatial index over the triangles for point location.
// It can evaluate piecewise-linear (barycentric) interpolation weights for
// any set of query points within the convex hull of the samples.
type Triangulation struct {
	x, y  []float64
	index *rtree.Rtree
}

// NewTriangulation triangulates the sample locations (x, y). It returns
// ErrDegenerateInput if the samples cannot be triangulated, which happens
// when fewer than 3 points are supplied or all points are collinear.
func NewTriangulation(x, y []float64) (*Triangulation, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("bathymesh: triangulation has mismatched coordinate lengths (%d, %d)", len(x), len(y))
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("bathymesh: triangulating %d points: %w", len(x), ErrDegenerateInput)
	}
	pts := make([]delaunay.Point, len(x))
	for i := range x {
		pts[i] = delaunay.Point{X: x[i], Y: y[i]}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("bathymesh: triangulating %d points: %w", len(x), ErrDegenerateInput)
	}
	if len(tri.Triangles) == 0 {
		return nil, fmt.Errorf("bathymesh: triangulating %d points: %w", len(x), ErrDegenerateInput)
	}

	t := &Triangulation{
		x:     x,
		y:     y,
		index: rtree.NewTree(25, 50),
	}
	for i := 0; i < len(tri.Triangles); i += 3 {
		tr := &triangle{
			v: [3]int{tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]},
		}
		ring := make([]geom.Point, 3)
		for k, vi := range tr.v {
			ring[k] = geom.Point{X: x[vi], Y: y[vi]}
		}
		tr.Polygon = geom.Polygon{ring}
		t.index.Insert(tr)
	}
	return t, nil
}

// NumPoints returns the number of triangulated sample locations.
func (t *Triangulation) NumPoints() int { return len(t.x) }

// barycentric computes the barycentric coordinates of point p in the
// triangle with vertices a, b and c. ok reports whether p lies inside the
// triangle (boundary inclusive, within tolerance).
func barycentric(p, a, b, c geom.Point) (w [3]float64, ok bool) {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det == 0 {
		return w, false
	}
	w[0] = ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / det
	w[1] = ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / det
	w[2] = 1 - w[0] - w[1]
	ok = w[0] >= -barycentricTol && w[1] >= -barycentricTol && w[2] >= -barycentricTol
	return w, ok
}

// locate finds the triangle containing p and returns its vertex indices and
// barycentric weights. found is false when p is outside the convex hull of
// the samples.
func (t *Triangulation) locate(p geom.Point) (v [3]int, w [3]float64, found bool) {
	for _, s := range t.index.SearchIntersect(geom.NewBoundsPoint(p)) {
		tr := s.(*triangle)
		a := geom.Point{X: t.x[tr.v[0]], Y: t.y[tr.v[0]]}
		b := geom.Point{X: t.x[tr.v[1]], Y: t.y[tr.v[1]]}
		c := geom.Point{X: t.x[tr.v[2]], Y: t.y[tr.v[2]]}
		if w, ok := barycentric(p, a, b, c); ok {
			return tr.v, w, true
		}
	}
	return v, w, false
}

// Weights holds precomputed interpolation weights from one set of sample
// locations onto one set of grid nodes. The same weights can be applied to
// any number of value arrays sampled at those locations, avoiding repeated
// triangulation when several variables are interpolated onto one mesh.
type Weights struct {
	shape    []int
	nsamples int

	// vertices[i] holds the sample indices of the triangle containing
	// node i, or {-1, -1, -1} if the node is outside the convex hull.
	vertices [][3]int
	coeffs   [][3]float64
}

// Weights evaluates interpolation weights for every node in the grid.
// Nodes outside the convex hull of the samples receive no weights and
// interpolate to NaN.
func (t *Triangulation) Weights(nodes *NodeGrid) *Weights {
	ny, nx := nodes.Shape()
	w := &Weights{
		shape:    []int{ny, nx},
		nsamples: len(t.x),
		vertices: make([][3]int, ny*nx),
		coeffs:   make([][3]float64, ny*nx),
	}
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			n := i*nx + j
			v, c, found := t.locate(nodes.Point(i, j))
			if !found {
				w.vertices[n] = [3]int{-1, -1, -1}
				continue
			}
			w.vertices[n] = v
			w.coeffs[n] = c
		}
	}
	return w
}

// Apply interpolates the sample values onto the grid nodes using the
// precomputed weights. Nodes outside the convex hull of the triangulated
// samples are set to NaN. The values must be in the same order, and of the
// same length, as the sample locations the weights were computed from.
func (w *Weights) Apply(values []float64) (*sparse.DenseArray, error) {
	if len(values) != w.nsamples {
		return nil, fmt.Errorf("bathymesh: applying weights for %d samples to %d values",
			w.nsamples, len(values))
	}
	field := sparse.ZerosDense(w.shape...)
	for n, v := range w.vertices {
		if v[0] < 0 {
			field.Elements[n] = math.NaN()
			continue
		}
		c := w.coeffs[n]
		field.Elements[n] = c[0]*values[v[0]] + c[1]*values[v[1]] + c[2]*values[v[2]]
	}
	return field, nil
}

// Interpolate computes depths at every grid node from the scattered samples
// using piecewise-linear interpolation over their Delaunay triangulation.
// Nodes outside the convex hull of the samples are NaN.
func Interpolate(nodes *NodeGrid, samples PointCloud) (*sparse.DenseArray, error) {
	if err := samples.check(); err != nil {
		return nil, err
	}
	t, err := NewTriangulation(samples.X, samples.Y)
	if err != nil {
		return nil, err
	}
	return t.Weights(nodes).Apply(samples.Z)
}
