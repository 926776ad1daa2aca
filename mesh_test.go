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
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMeshNotReady(t *testing.T) {
	m := NewMesh("Main", Metric, nil)

	if err := m.Compute(cornerSamples); !errors.Is(err, ErrNotReady) {
		t.Errorf("Compute before Configure: err = %v, want ErrNotReady", err)
	}
	if _, err := m.Depth(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Depth before Configure: err = %v, want ErrNotReady", err)
	}
	if _, err := m.Nodes(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Nodes before Configure: err = %v, want ErrNotReady", err)
	}
	if err := m.PersistSpec(filepath.Join(t.TempDir(), "mesh.ini"), true); !errors.Is(err, ErrNotReady) {
		t.Errorf("PersistSpec before Configure: err = %v, want ErrNotReady", err)
	}

	if err := m.Configure(FromCorners(0, 10, 0, 10, 5, 5)); err != nil {
		t.Fatal(err)
	}
	if !m.Configured() || m.Computed() {
		t.Error("mesh should be configured but not computed")
	}
	if _, err := m.Depth(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Depth before Compute: err = %v, want ErrNotReady", err)
	}
	if _, err := m.InterpolateShared([]float64{1, 2, 3, 4}); !errors.Is(err, ErrNotReady) {
		t.Errorf("InterpolateShared before Compute: err = %v, want ErrNotReady", err)
	}
	if _, err := m.Elevation(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Elevation before Compute: err = %v, want ErrNotReady", err)
	}
}

func TestMeshEndToEnd(t *testing.T) {
	dir := t.TempDir()
	m := NewMesh("Main", Metric, nil)

	// 3x3 nodes spanning [0,10] x [0,10] at spacing 5.
	if err := m.Configure(FromCorners(0, 15, 0, 15, 5, 5)); err != nil {
		t.Fatal(err)
	}
	spec, err := m.Spec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Nx != 3 || spec.Ny != 3 {
		t.Fatalf("counts = (%d, %d), want (3, 3)", spec.Nx, spec.Ny)
	}

	samples := PointCloud{
		X: []float64{0, 15, 0, 15},
		Y: []float64{0, 0, 15, 15},
		Z: []float64{5, 7, 9, 3},
	}
	if err := m.Compute(samples); err != nil {
		t.Fatal(err)
	}
	if !m.Computed() {
		t.Error("mesh should be computed")
	}

	depth, err := m.Depth()
	if err != nil {
		t.Fatal(err)
	}
	if depth.Shape[0] != 3 || depth.Shape[1] != 3 {
		t.Fatalf("depth shape = %v, want [3 3]", depth.Shape)
	}
	// Node (0,0) coincides with the first sample; (5,5) is interior.
	if got := depth.Get(2, 0); !approxEqual(got, 5, testTolerance) {
		t.Errorf("depth at (0,0) = %g, want 5", got)
	}
	if got := depth.Get(1, 1); got < 3 || got > 9 {
		t.Errorf("depth at (5,5) = %g, want within [3, 9]", got)
	}

	out := filepath.Join(dir, "Bathymetry_mesh_Main.dat")
	if err := m.SaveDepth(out); err != nil {
		t.Fatal(err)
	}
	if m.OutputPath() != out {
		t.Errorf("output path = %q, want %q", m.OutputPath(), out)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output has %d rows, want 3:\n%s", len(lines), b)
	}
	for i, line := range lines {
		cols := strings.Split(strings.TrimRight(line, "\t"), "\t")
		if len(cols) != 3 {
			t.Fatalf("row %d has %d columns, want 3", i, len(cols))
		}
	}
	if strings.Contains(string(b), "NaN") {
		t.Errorf("output contains NaN although all nodes are inside the hull:\n%s", b)
	}
}

func TestMeshRecompute(t *testing.T) {
	m := NewMesh("Main", Metric, nil)
	if err := m.Configure(FromCorners(0, 10, 0, 10, 5, 5)); err != nil {
		t.Fatal(err)
	}
	if err := m.Compute(cornerSamples); err != nil {
		t.Fatal(err)
	}
	first, err := m.Depth()
	if err != nil {
		t.Fatal(err)
	}

	deeper := PointCloud{X: cornerSamples.X, Y: cornerSamples.Y, Z: []float64{50, 70, 90, 30}}
	if err := m.Compute(deeper); err != nil {
		t.Fatal(err)
	}
	second, err := m.Depth()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("recompute did not replace the depth field")
	}
	ny, nx := second.Shape[0], second.Shape[1]
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			if !math.IsNaN(second.Get(i, j)) && second.Get(i, j) < 10 {
				t.Errorf("node (%d, %d) still holds the old field: %g", i, j, second.Get(i, j))
			}
		}
	}
}

func TestMeshComputeWithContourAndRetention(t *testing.T) {
	m := NewMesh("Main", Metric, nil)
	if err := m.Configure(FromCorners(0, 20, 0, 20, 5, 5)); err != nil {
		t.Fatal(err)
	}

	// A dense cloud covering [0,20]^2 with a constant depth.
	var samples PointCloud
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		samples.X = append(samples.X, rnd.Float64()*20)
		samples.Y = append(samples.Y, rnd.Float64()*20)
		samples.Z = append(samples.Z, 12)
	}
	for _, p := range [][2]float64{{0, 0}, {20, 0}, {0, 20}, {20, 20}} {
		samples.X = append(samples.X, p[0])
		samples.Y = append(samples.Y, p[1])
		samples.Z = append(samples.Z, 12)
	}

	contour, err := NewContour([]float64{0, 10, 10, 0}, []float64{0, 0, 10, 10})
	if err != nil {
		t.Fatal(err)
	}
	err = m.Compute(samples,
		WithContour(contour),
		WithRetention(0.8),
		WithRand(rand.New(rand.NewSource(99))),
	)
	if err != nil {
		t.Fatal(err)
	}

	depth, err := m.Depth()
	if err != nil {
		t.Fatal(err)
	}
	nodes, err := m.Nodes()
	if err != nil {
		t.Fatal(err)
	}
	ny, nx := nodes.Shape()
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			p := nodes.Point(i, j)
			inside := p.X <= 10 && p.Y <= 10
			if inside && !approxEqual(depth.Get(i, j), 12, 1e-6) {
				t.Errorf("node (%g, %g) = %g, want 12", p.X, p.Y, depth.Get(i, j))
			}
			if !inside && !math.IsNaN(depth.Get(i, j)) {
				t.Errorf("node (%g, %g) = %g, want NaN outside contour", p.X, p.Y, depth.Get(i, j))
			}
		}
	}
}

func TestMeshInterpolateShared(t *testing.T) {
	m := NewMesh("Main", Metric, nil)
	if err := m.Configure(FromCorners(0, 10, 0, 10, 2.5, 2.5)); err != nil {
		t.Fatal(err)
	}
	if err := m.Compute(cornerSamples); err != nil {
		t.Fatal(err)
	}

	wave := []float64{1.5, 0.7, 2.2, 3.1}
	shared, err := m.InterpolateShared(wave)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := m.InterpolateVariable(cornerSamples.X, cornerSamples.Y, wave)
	if err != nil {
		t.Fatal(err)
	}
	for n := range shared.Elements {
		a, b := shared.Elements[n], fresh.Elements[n]
		if math.IsNaN(a) != math.IsNaN(b) || (!math.IsNaN(a) && !approxEqual(a, b, testTolerance)) {
			t.Fatalf("element %d: shared = %g, fresh = %g", n, a, b)
		}
	}
}

func TestMeshConfigureFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.ini")

	builder := NewMesh("Main", Metric, nil)
	if err := builder.Configure(FromCorners(356450, 359825, 3124000, 3126500, 25, 25)); err != nil {
		t.Fatal(err)
	}
	if err := builder.PersistSpec(path, false); err != nil {
		t.Fatal(err)
	}
	// A second persist without overwrite must leave the record alone.
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := builder.PersistSpec(path, false); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("PersistSpec without overwrite modified an existing record")
	}

	loader := NewMesh("Main", Metric, nil)
	if err := loader.Configure(FromConfig(path, GridDefaults{})); err != nil {
		t.Fatal(err)
	}
	a, err := builder.Spec()
	if err != nil {
		t.Fatal(err)
	}
	b, err := loader.Spec()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("loaded spec %+v, want %+v", b, a)
	}
}
