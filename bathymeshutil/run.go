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
	"strings"

	"github.com/ctessum/geom"
	"github.com/spf13/viper"

	"github.com/coastalmodel/bathymesh"
)

// defaultGridSpacing fills in spacing keys a mesh configuration section
// leaves out.
var defaultGridSpacing = bathymesh.GridDefaults{Dx: 100, Dy: 100}

// Grid derives a grid from the corner-point configuration variables and
// persists it as a section of the mesh configuration record.
func Grid(cfg *viper.Viper) error {
	log := Logger()
	mode, err := coordinateMode(cfg)
	if err != nil {
		return err
	}
	meshConfig, err := checkMeshConfig(cfg.GetString("MeshConfig"))
	if err != nil {
		return err
	}
	x1, x2, y1, y2, dx, dy, err := gridCorners(cfg)
	if err != nil {
		return err
	}

	m := bathymesh.NewMesh(os.ExpandEnv(cfg.GetString("Grid.Key")), mode, log)
	if err := m.Configure(bathymesh.FromCorners(x1, x2, y1, y2, dx, dy)); err != nil {
		return err
	}
	return m.PersistSpec(meshConfig, cfg.GetBool("Grid.Overwrite"))
}

// Run loads the survey point cloud and, for every configured mesh key,
// builds the grid from the mesh configuration record, interpolates depths
// onto the grid nodes, and writes the depth table to the output directory.
func Run(cfg *viper.Viper) error {
	log := Logger()
	mode, err := coordinateMode(cfg)
	if err != nil {
		return err
	}
	meshConfig, err := checkMeshConfig(cfg.GetString("MeshConfig"))
	if err != nil {
		return err
	}
	keys, err := checkMeshes(cfg.GetStringSlice("Meshes"))
	if err != nil {
		return err
	}
	outputDir, err := checkOutputDir(cfg.GetString("OutputDir"))
	if err != nil {
		return err
	}
	fraction, err := checkRetentionFraction(cfg.GetFloat64("RetentionFraction"))
	if err != nil {
		return err
	}

	bathyFile, err := checkBathymetryFile(cfg.GetString("BathymetryFile"))
	if err != nil {
		return err
	}
	var cloud bathymesh.PointCloud
	if strings.HasSuffix(bathyFile, ".shp") {
		cloud, err = bathymesh.LoadPointCloudSHP(bathyFile, os.ExpandEnv(cfg.GetString("BathymetryZColumn")))
	} else {
		cloud, err = bathymesh.LoadPointCloudFile(bathyFile)
	}
	if err != nil {
		return err
	}
	log.WithField("points", cloud.Len()).Info("survey cloud loaded")

	var opts []bathymesh.ComputeOption
	if fraction < 1 {
		opts = append(opts, bathymesh.WithRetention(fraction))
	}
	if contourFile := os.ExpandEnv(cfg.GetString("ContourFile")); contourFile != "" {
		var contour geom.Polygon
		contour, err = bathymesh.LoadContourFile(contourFile)
		if err != nil {
			return err
		}
		opts = append(opts, bathymesh.WithContour(contour))
	}

	for _, key := range keys {
		m := bathymesh.NewMesh(key, mode, log)
		if err := m.Configure(bathymesh.FromConfig(meshConfig, defaultGridSpacing)); err != nil {
			return fmt.Errorf("bathymesh: configuring mesh %s: %w", key, err)
		}
		if err := m.Compute(cloud, opts...); err != nil {
			return err
		}
		if err := m.SaveDepth(depthPath(outputDir, key)); err != nil {
			return err
		}
	}
	return nil
}
