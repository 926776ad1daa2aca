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
	"os"
	"path/filepath"
	"testing"
)

func TestGridSpecRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	want, err := NewGridSpec(356450, 359825, 3124000, 3126500, 25, 25, Metric)
	if err != nil {
		t.Fatal(err)
	}
	if err := want.Persist(path, "Main"); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGridSpec(path, "Main", Metric, GridDefaults{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
}

func TestGridSpecRoundTripGeographic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	want := GridSpec{Xo: -16.77, Yo: 28.35, Dx: 0.001, Dy: 0.001, Nx: 120, Ny: 80, Mode: Geographic}
	if err := want.Persist(path, "Nested"); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGridSpec(path, "Nested", Geographic, GridDefaults{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
	// The geographic record must use lon/lat key names.
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"lonmin", "latmin", "dlon", "dlat", "nlon", "nlat"} {
		if !containsKey(string(b), key) {
			t.Errorf("persisted record is missing key %q:\n%s", key, b)
		}
	}
}

func containsKey(s, key string) bool {
	for _, line := range splitLines(s) {
		if len(line) >= len(key) && line[:len(key)] == key {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func TestReadGridSpecMissingFile(t *testing.T) {
	_, err := ReadGridSpec(filepath.Join(t.TempDir(), "nope.ini"), "Main", Metric, GridDefaults{})
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestReadGridSpecMissingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	s := GridSpec{Xo: 0, Yo: 0, Dx: 1, Dy: 1, Nx: 2, Ny: 2, Mode: Metric}
	if err := s.Persist(path, "Main"); err != nil {
		t.Fatal(err)
	}
	_, err := ReadGridSpec(path, "Nested", Metric, GridDefaults{})
	if !errors.Is(err, ErrConfigKey) {
		t.Errorf("err = %v, want ErrConfigKey", err)
	}
}

func TestReadGridSpecMissingOrigin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	if err := os.WriteFile(path, []byte("[Main]\ndx = 100\ndy = 100\nnx = 5\nny = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadGridSpec(path, "Main", Metric, GridDefaults{})
	if !errors.Is(err, ErrConfigKey) {
		t.Errorf("err = %v, want ErrConfigKey", err)
	}
}

func TestReadGridSpecDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	if err := os.WriteFile(path, []byte("[Main]\nxmin = 100\nymin = 200\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGridSpec(path, "Main", Metric, GridDefaults{Dx: 100, Dy: 50, Nx: 7, Ny: 9})
	if err != nil {
		t.Fatal(err)
	}
	want := GridSpec{Xo: 100, Yo: 200, Dx: 100, Dy: 50, Nx: 7, Ny: 9, Mode: Metric}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadGridSpecPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ini")
	if err := os.WriteFile(path, []byte("[Main]\nxmin = 0\nymin = 0\ndx = 20\nnx = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGridSpec(path, "Main", Metric, GridDefaults{Dx: 100, Dy: 100, Nx: 10, Ny: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got.Dx != 20 || got.Nx != 3 {
		t.Errorf("overridden keys not applied: %+v", got)
	}
	if got.Dy != 100 || got.Ny != 10 {
		t.Errorf("defaults not kept for absent keys: %+v", got)
	}
}
