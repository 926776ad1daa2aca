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
	"io"
	"math/rand"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

type meshState int

const (
	meshUnconfigured meshState = iota
	meshConfigured
	meshComputed
)

// Mesh holds one named structured mesh through its lifecycle: first the
// grid is configured (from corner points or from a persisted record), then
// depths are computed from a survey point cloud. A Mesh is not safe for
// concurrent use; build independent meshes on independent Mesh values.
type Mesh struct {
	Key  string
	Mode CoordinateMode

	log logrus.FieldLogger

	state   meshState
	spec    GridSpec
	nodes   *NodeGrid
	depth   *sparse.DenseArray
	weights *Weights
	outPath string
}

// NewMesh creates an unconfigured mesh named key. The logger is used for
// progress reporting; nil disables logging.
func NewMesh(key string, mode CoordinateMode, log logrus.FieldLogger) *Mesh {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Mesh{
		Key:  key,
		Mode: mode,
		log:  log.WithFields(logrus.Fields{"mesh": key, "mode": mode.String()}),
	}
}

// A GridSource produces the grid specification for a mesh. Sources are
// applied by Configure.
type GridSource func(m *Mesh) (GridSpec, error)

// FromCorners is a GridSource deriving the grid from two corner points and
// node spacings.
func FromCorners(x1, x2, y1, y2, dx, dy float64) GridSource {
	return func(m *Mesh) (GridSpec, error) {
		m.log.WithFields(logrus.Fields{
			"x1": x1, "x2": x2, "y1": y1, "y2": y2,
		}).Info("building grid from corner points")
		return NewGridSpec(x1, x2, y1, y2, dx, dy, m.Mode)
	}
}

// FromConfig is a GridSource loading the grid from the section of a
// persisted configuration record named after the mesh key.
func FromConfig(path string, def GridDefaults) GridSource {
	return func(m *Mesh) (GridSpec, error) {
		m.log.WithFields(logrus.Fields{"config": path}).Info("loading grid configuration")
		return ReadGridSpec(path, m.Key, m.Mode, def)
	}
}

// Configure derives the grid specification from src and materializes the
// node coordinates. It moves the mesh into the configured state; computed
// results from a previous configuration are discarded.
func (m *Mesh) Configure(src GridSource) error {
	spec, err := src(m)
	if err != nil {
		return err
	}
	m.spec = spec
	m.nodes = spec.Nodes()
	m.depth = nil
	m.weights = nil
	m.state = meshConfigured
	m.log.WithFields(logrus.Fields{
		"nx": spec.Nx, "ny": spec.Ny, "dx": spec.Dx, "dy": spec.Dy,
	}).Info("mesh configured")
	return nil
}

// PersistSpec writes the configured grid to the configuration record at
// path under the mesh key, unless overwrite is false and the record already
// exists, in which case the existing record is left for re-reading.
func (m *Mesh) PersistSpec(path string, overwrite bool) error {
	if m.state < meshConfigured {
		return fmt.Errorf("bathymesh: persisting mesh %s: %w", m.Key, ErrNotReady)
	}
	if !overwrite && fileExists(path) {
		m.log.WithFields(logrus.Fields{"config": path}).Info("grid configuration exists; not overwriting")
		return nil
	}
	if err := m.spec.Persist(path, m.Key); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"config": path}).Info("grid configuration persisted")
	return nil
}

type computeConfig struct {
	contour  geom.Polygon
	fraction float64
	rnd      *rand.Rand
}

// A ComputeOption adjusts how Compute processes the survey point cloud.
type ComputeOption func(*computeConfig)

// WithContour restricts the computed depth field to the nodes inside the
// closed contour polygon; nodes outside it become NaN.
func WithContour(contour geom.Polygon) ComputeOption {
	return func(c *computeConfig) { c.contour = contour }
}

// WithRetention sub-samples the survey cloud to the given fraction of its
// points, drawn at random without replacement, before interpolating.
func WithRetention(fraction float64) ComputeOption {
	return func(c *computeConfig) { c.fraction = fraction }
}

// WithRand sets the random source used by WithRetention, for reproducible
// sub-sampling.
func WithRand(rnd *rand.Rand) ComputeOption {
	return func(c *computeConfig) { c.rnd = rnd }
}

// Compute interpolates the survey samples onto the mesh nodes and stores
// the resulting depth field. Calling Compute again replaces the stored
// field. Any error from sampling, triangulation or masking is returned
// unmodified and leaves the previous field (if any) in place.
func (m *Mesh) Compute(samples PointCloud, opts ...ComputeOption) error {
	if m.state < meshConfigured {
		return fmt.Errorf("bathymesh: computing mesh %s: %w", m.Key, ErrNotReady)
	}
	cfg := computeConfig{fraction: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	reduced, err := ReducePointCloud(samples, cfg.fraction, cfg.rnd)
	if err != nil {
		return err
	}
	if cfg.fraction < 1 {
		m.log.WithFields(logrus.Fields{
			"points": samples.Len(), "kept": reduced.Len(), "fraction": cfg.fraction,
		}).Info("survey cloud reduced")
	}

	t, err := NewTriangulation(reduced.X, reduced.Y)
	if err != nil {
		return err
	}
	weights := t.Weights(m.nodes)
	depth, err := weights.Apply(reduced.Z)
	if err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"points": reduced.Len()}).Info("bathymetry interpolated")

	if cfg.contour != nil {
		depth, err = MaskContour(depth, m.nodes, cfg.contour)
		if err != nil {
			return err
		}
		m.log.Info("contour mask applied")
	}

	m.depth = depth
	m.weights = weights
	m.state = meshComputed
	return nil
}

// InterpolateVariable interpolates a second scattered variable onto the
// mesh nodes, triangulating the variable's own sample locations. The mesh
// must already be computed.
func (m *Mesh) InterpolateVariable(x, y, values []float64) (*sparse.DenseArray, error) {
	if m.state != meshComputed {
		return nil, fmt.Errorf("bathymesh: interpolating variable on mesh %s: %w", m.Key, ErrNotReady)
	}
	return Interpolate(m.nodes, PointCloud{X: x, Y: y, Z: values})
}

// InterpolateShared applies the interpolation weights computed by Compute
// to a new value array sampled at the same locations, in the same order, as
// the survey cloud used there. This avoids re-triangulating when several
// variables share one set of sample locations.
func (m *Mesh) InterpolateShared(values []float64) (*sparse.DenseArray, error) {
	if m.state != meshComputed {
		return nil, fmt.Errorf("bathymesh: interpolating on mesh %s: %w", m.Key, ErrNotReady)
	}
	return m.weights.Apply(values)
}

// Configured reports whether the mesh grid has been configured.
func (m *Mesh) Configured() bool { return m.state >= meshConfigured }

// Computed reports whether the mesh holds a computed depth field.
func (m *Mesh) Computed() bool { return m.state == meshComputed }

// Spec returns the configured grid specification.
func (m *Mesh) Spec() (GridSpec, error) {
	if m.state < meshConfigured {
		return GridSpec{}, fmt.Errorf("bathymesh: mesh %s has no grid: %w", m.Key, ErrNotReady)
	}
	return m.spec, nil
}

// Nodes returns the mesh node coordinates. The returned arrays are owned by
// the mesh and must not be modified.
func (m *Mesh) Nodes() (*NodeGrid, error) {
	if m.state < meshConfigured {
		return nil, fmt.Errorf("bathymesh: mesh %s has no grid: %w", m.Key, ErrNotReady)
	}
	return m.nodes, nil
}

// Depth returns the computed depth field, one value per node, NaN where
// interpolation was undefined or masked out. The returned array is owned by
// the mesh and must not be modified.
func (m *Mesh) Depth() (*sparse.DenseArray, error) {
	if m.state != meshComputed {
		return nil, fmt.Errorf("bathymesh: mesh %s has no depth field: %w", m.Key, ErrNotReady)
	}
	return m.depth, nil
}

// OutputPath returns the path the depth field was last saved to, or an
// empty string if it has not been saved.
func (m *Mesh) OutputPath() string { return m.outPath }
