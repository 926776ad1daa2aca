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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadPointCloud reads a whitespace-delimited text table of x, y, z
// columns, one sample per row, with no header. Blank lines are skipped.
func LoadPointCloud(r io.Reader) (PointCloud, error) {
	var c PointCloud
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return PointCloud{}, fmt.Errorf("bathymesh: point cloud line %d has %d columns; want 3", line, len(fields))
		}
		var vals [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return PointCloud{}, fmt.Errorf("bathymesh: point cloud line %d: %v", line, err)
			}
			vals[i] = v
		}
		c.X = append(c.X, vals[0])
		c.Y = append(c.Y, vals[1])
		c.Z = append(c.Z, vals[2])
	}
	if err := scanner.Err(); err != nil {
		return PointCloud{}, fmt.Errorf("bathymesh: reading point cloud: %v", err)
	}
	return c, nil
}

// LoadPointCloudFile reads a point cloud from the text file at path.
func LoadPointCloudFile(path string) (PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return PointCloud{}, fmt.Errorf("bathymesh: opening point cloud %s: %v", path, err)
	}
	defer f.Close()
	return LoadPointCloud(f)
}

// LoadPointCloudSHP reads a point cloud from a point-geometry shapefile,
// taking depths from the attribute column named zField.
func LoadPointCloudSHP(path, zField string) (PointCloud, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return PointCloud{}, fmt.Errorf("bathymesh: opening shapefile %s: %v", path, err)
	}
	defer d.Close()

	var c PointCloud
	for {
		g, fields, more := d.DecodeRowFields(zField)
		if !more {
			break
		}
		p, ok := g.(geom.Point)
		if !ok {
			return PointCloud{}, fmt.Errorf("bathymesh: shapefile %s: row geometry is %T; want geom.Point", path, g)
		}
		zs, ok := fields[zField]
		if !ok {
			return PointCloud{}, fmt.Errorf("bathymesh: shapefile %s is missing attribute column %s", path, zField)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(zs), 64)
		if err != nil {
			return PointCloud{}, fmt.Errorf("bathymesh: shapefile %s attribute %s: %v", path, zField, err)
		}
		c.X = append(c.X, p.X)
		c.Y = append(c.Y, p.Y)
		c.Z = append(c.Z, z)
	}
	if err := d.Error(); err != nil {
		return PointCloud{}, fmt.Errorf("bathymesh: reading shapefile %s: %v", path, err)
	}
	return c, nil
}

// LoadContour reads a closed contour polygon from a whitespace-delimited
// text table of x, y columns.
func LoadContour(r io.Reader) (geom.Polygon, error) {
	var x, y []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("bathymesh: contour line %d has %d columns; want 2", line, len(fields))
		}
		xv, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bathymesh: contour line %d: %v", line, err)
		}
		yv, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bathymesh: contour line %d: %v", line, err)
		}
		x = append(x, xv)
		y = append(y, yv)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bathymesh: reading contour: %v", err)
	}
	return NewContour(x, y)
}

// LoadContourFile reads a contour polygon from the text file at path.
func LoadContourFile(path string) (geom.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bathymesh: opening contour %s: %v", path, err)
	}
	defer f.Close()
	return LoadContour(f)
}

// WriteDepth writes the computed depth field as a tab-delimited text table,
// row 0 northmost, one column per grid column. Cells whose depth is NaN or
// exactly zero are written as the token NaN; the zero case keeps the output
// format of earlier tooling, where zero marks missing data rather than a
// true zero depth. Finite depths are written with 6 decimal digits.
func (m *Mesh) WriteDepth(w io.Writer) error {
	if m.state != meshComputed {
		return fmt.Errorf("bathymesh: writing mesh %s: %w", m.Key, ErrNotReady)
	}
	bw := bufio.NewWriter(w)
	ny, nx := m.nodes.Shape()
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			d := m.depth.Get(i, j)
			if d == 0 || math.IsNaN(d) {
				fmt.Fprint(bw, "NaN\t")
			} else {
				fmt.Fprintf(bw, "%.6f\t", d)
			}
		}
		fmt.Fprint(bw, "\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bathymesh: writing mesh %s: %v", m.Key, err)
	}
	return nil
}

// ReadDepth reads a depth table in the format WriteDepth produces back into
// a dense array with the given grid shape. NaN tokens become NaN cells.
func ReadDepth(r io.Reader, spec GridSpec) (*sparse.DenseArray, error) {
	depth := sparse.ZerosDense(spec.Ny, spec.Nx)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if row >= spec.Ny {
			return nil, fmt.Errorf("bathymesh: depth table has more than %d rows", spec.Ny)
		}
		if len(fields) != spec.Nx {
			return nil, fmt.Errorf("bathymesh: depth table row %d has %d columns; want %d", row+1, len(fields), spec.Nx)
		}
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bathymesh: depth table row %d: %v", row+1, err)
			}
			depth.Set(v, row, j)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bathymesh: reading depth table: %v", err)
	}
	if row != spec.Ny {
		return nil, fmt.Errorf("bathymesh: depth table has %d rows; want %d", row, spec.Ny)
	}
	return depth, nil
}

// ReadDepthFile reads a saved depth table from the file at path.
func ReadDepthFile(path string, spec GridSpec) (*sparse.DenseArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bathymesh: opening depth table %s: %v", path, err)
	}
	defer f.Close()
	return ReadDepth(f, spec)
}

// SaveDepth writes the computed depth field to the file at path and records
// the path as the mesh output location.
func (m *Mesh) SaveDepth(path string) error {
	if m.state != meshComputed {
		return fmt.Errorf("bathymesh: saving mesh %s: %w", m.Key, ErrNotReady)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bathymesh: creating %s: %v", path, err)
	}
	defer f.Close()
	if err := m.WriteDepth(f); err != nil {
		return err
	}
	m.outPath = path
	m.log.WithFields(logrus.Fields{"file": path}).Info("depth field saved")
	return nil
}
