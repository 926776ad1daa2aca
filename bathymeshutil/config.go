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

package bathymeshutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/coastalmodel/bathymesh"
)

// checkBathymetryFile makes sure the survey point cloud is specified and
// exists, expanding any environment variables.
func checkBathymetryFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify a survey point cloud (for example: BathymetryFile=\"batimetria.dat\")")
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("bathymesh: the BathymetryFile doesn't exist: %v", err)
	}
	return f, nil
}

// checkMeshConfig expands environment variables in the mesh configuration
// record path.
func checkMeshConfig(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify a mesh configuration record (for example: MeshConfig=\"mesh.ini\")")
	}
	return os.ExpandEnv(f), nil
}

// checkMeshes ensures at least one mesh key was specified and expands
// environment variables.
func checkMeshes(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("there are no mesh keys specified. Please fill in the Meshes configuration and try again.")
	}
	for i := 0; i < len(keys); i++ {
		keys[i] = os.ExpandEnv(keys[i])
	}
	return keys, nil
}

// checkRetentionFraction ensures the sub-sampling fraction is in (0, 1].
func checkRetentionFraction(f float64) (float64, error) {
	if f <= 0 || f > 1 {
		return f, fmt.Errorf("the RetentionFraction configuration variable needs to be in (0, 1], but is currently set to %g", f)
	}
	return f, nil
}

// checkOutputDir makes sure the output directory exists, expanding any
// environment variables.
func checkOutputDir(d string) (string, error) {
	if d == "" {
		d = "."
	}
	d = os.ExpandEnv(d)
	if _, err := os.Stat(d); err != nil {
		return d, fmt.Errorf("bathymesh: the OutputDir directory doesn't exist: %v", err)
	}
	return d, nil
}

// coordinateMode parses the CoordinateMode configuration variable.
func coordinateMode(cfg *viper.Viper) (bathymesh.CoordinateMode, error) {
	return bathymesh.ParseCoordinateMode(os.ExpandEnv(cfg.GetString("CoordinateMode")))
}

// depthPath is the location the depth table for the given mesh key is
// written to and read back from.
func depthPath(outputDir, key string) string {
	return filepath.Join(outputDir, fmt.Sprintf("Bathymetry_mesh_%s.dat", key))
}

// gridCorners reads the grid command corner and spacing variables.
func gridCorners(cfg *viper.Viper) (x1, x2, y1, y2, dx, dy float64, err error) {
	vals := make([]float64, 6)
	for i, name := range []string{"Grid.X1", "Grid.X2", "Grid.Y1", "Grid.Y2", "Grid.Dx", "Grid.Dy"} {
		vals[i], err = cast.ToFloat64E(cfg.Get(name))
		if err != nil {
			err = fmt.Errorf("bathymesh: parsing configuration variable %s: %v", name, err)
			return
		}
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], nil
}
