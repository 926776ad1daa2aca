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
	"github.com/ctessum/sparse"
)

// NewContour builds a closed contour polygon from vertex coordinate slices.
// The ring does not need to repeat its first vertex; it is implicitly
// closed.
func NewContour(x, y []float64) (geom.Polygon, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("bathymesh: contour has mismatched coordinate lengths (%d, %d)", len(x), len(y))
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("bathymesh: contour of %d vertices is not a polygon", len(x))
	}
	ring := make([]geom.Point, len(x))
	for i := range x {
		ring[i] = geom.Point{X: x[i], Y: y[i]}
	}
	return geom.Polygon{ring}, nil
}

// MaskContour returns a copy of field in which every node outside the
// contour polygon is set to NaN. Nodes inside the polygon or exactly on its
// boundary keep their values. The polygon may be non-convex and may contain
// holes as additional rings. The input field is not modified.
func MaskContour(field *sparse.DenseArray, nodes *NodeGrid, contour geom.Polygon) (*sparse.DenseArray, error) {
	ny, nx := nodes.Shape()
	if field.Shape[0] != ny || field.Shape[1] != nx {
		return nil, fmt.Errorf("bathymesh: masking %v field against %d x %d node grid",
			field.Shape, ny, nx)
	}
	o := sparse.ZerosDense(ny, nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			if nodes.Point(i, j).Within(contour) == geom.Outside {
				o.Set(math.NaN(), i, j)
			} else {
				o.Set(field.Get(i, j), i, j)
			}
		}
	}
	return o, nil
}
