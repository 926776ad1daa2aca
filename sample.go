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
	"math/rand"
)

// PointCloud holds irregularly spaced survey samples as parallel coordinate
// and value slices. There is no ordering requirement and duplicate points
// are permitted.
type PointCloud struct {
	X, Y, Z []float64
}

// Len returns the number of samples in the cloud.
func (c PointCloud) Len() int { return len(c.X) }

func (c PointCloud) check() error {
	if len(c.X) != len(c.Y) || len(c.X) != len(c.Z) {
		return fmt.Errorf("bathymesh: point cloud has mismatched lengths (%d, %d, %d)",
			len(c.X), len(c.Y), len(c.Z))
	}
	return nil
}

// ReducePointCloud draws floor(N*fraction) distinct samples from c uniformly
// at random without replacement. A fraction of 1 returns c unchanged. The
// returned samples are in sampled order, not the original order. If rnd is
// nil the shared, non-seeded random source is used; pass a seeded *rand.Rand
// for reproducible draws.
func ReducePointCloud(c PointCloud, fraction float64, rnd *rand.Rand) (PointCloud, error) {
	if err := c.check(); err != nil {
		return PointCloud{}, err
	}
	if fraction <= 0 || fraction > 1 {
		return PointCloud{}, fmt.Errorf("bathymesh: retention fraction %g: %w", fraction, ErrInvalidFraction)
	}
	if fraction == 1 {
		return c, nil
	}

	n := int(float64(c.Len()) * fraction)
	var perm []int
	if rnd == nil {
		perm = rand.Perm(c.Len())
	} else {
		perm = rnd.Perm(c.Len())
	}

	o := PointCloud{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
	for i, idx := range perm[:n] {
		o.X[i] = c.X[idx]
		o.Y[i] = c.Y[idx]
		o.Z[i] = c.Z[idx]
	}
	return o, nil
}
