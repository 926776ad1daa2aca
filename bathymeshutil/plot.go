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
	"math"
	"strings"

	"github.com/spf13/viper"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/coastalmodel/bathymesh"
)

// Plot reads the saved depth table for the given mesh key back from the
// output directory and renders it as a pseudocolor elevation map, written
// as a PNG file alongside the depth table.
func Plot(cfg *viper.Viper, key string) error {
	log := Logger()
	mode, err := coordinateMode(cfg)
	if err != nil {
		return err
	}
	meshConfig, err := checkMeshConfig(cfg.GetString("MeshConfig"))
	if err != nil {
		return err
	}
	outputDir, err := checkOutputDir(cfg.GetString("OutputDir"))
	if err != nil {
		return err
	}

	spec, err := bathymesh.ReadGridSpec(meshConfig, key, mode, defaultGridSpacing)
	if err != nil {
		return err
	}
	datPath := depthPath(outputDir, key)
	depth, err := bathymesh.ReadDepthFile(datPath, spec)
	if err != nil {
		return err
	}

	grid := bathymesh.ElevationGrid(spec, depth)
	min, max, ok := gridRange(grid)
	if !ok {
		return fmt.Errorf("bathymesh: mesh %s depth table %s holds no finite depths", key, datPath)
	}
	if min == max { // flat fields still need a nonempty color range.
		min, max = min-1, max+1
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(min)
	cm.SetMax(max)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mesh %s elevation", key)
	p.X.Label.Text, p.Y.Label.Text = mode.AxisLabels()
	p.Add(plotter.NewHeatMap(grid, cm.Palette(255)))

	pngPath := strings.TrimSuffix(datPath, ".dat") + ".png"
	if err := p.Save(8*vg.Inch, 6*vg.Inch, pngPath); err != nil {
		return fmt.Errorf("bathymesh: saving plot %s: %v", pngPath, err)
	}
	log.WithField("file", pngPath).Info("elevation map saved")
	return nil
}

// gridRange scans the grid for the finite value range. ok is false when
// every cell is NaN.
func gridRange(g plotter.GridXYZ) (min, max float64, ok bool) {
	cols, rows := g.Dims()
	min, max = math.Inf(1), math.Inf(-1)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			z := g.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			if z < min {
				min = z
			}
			if z > max {
				max = z
			}
			ok = true
		}
	}
	return min, max, ok
}
