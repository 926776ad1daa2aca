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

// Package bathymeshutil wires the bathymesh library into a command-line
// interface, with configuration handled through a configuration file,
// command-line flags, or environment variables.
package bathymeshutil

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coastalmodel/bathymesh"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to BathyMesh.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose enables debug-level log output.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "BathymetryFile",
			usage: `
              BathymetryFile is the path to the survey point cloud: a text
              table of x, y, depth columns with no header.`,
			defaultVal: "batimetria.dat",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "BathymetryZColumn",
			usage: `
              BathymetryZColumn is the attribute column holding depths when
              BathymetryFile is a point shapefile. It is ignored for text
              point clouds.`,
			defaultVal: "depth",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MeshConfig",
			usage: `
              MeshConfig is the path to the INI record holding one section
              of grid parameters per mesh key.`,
			defaultVal: "mesh.ini",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), gridCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Meshes",
			usage: `
              Meshes lists the mesh keys to process, each naming a section
              of MeshConfig (for example Main and Nested).`,
			defaultVal: []string{"Main"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CoordinateMode",
			usage: `
              CoordinateMode selects the grid coordinate semantics: 'metric'
              for planar meters or 'geographic' for longitude/latitude
              degrees. It controls key names in MeshConfig and axis labels
              in plots, not any coordinate transform.`,
			defaultVal: "metric",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), gridCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "RetentionFraction",
			usage: `
              RetentionFraction is the share of survey points kept after
              random sub-sampling, in (0, 1]. 1 keeps every point.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ContourFile",
			usage: `
              ContourFile is the path to an optional closed contour polygon
              (a text table of x, y columns). Nodes outside the contour are
              marked as missing. Leave blank to skip masking.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the depth grids and plots are
              written to.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Grid.Key",
			usage: `
              Grid.Key is the mesh key the grid command writes to MeshConfig.`,
			defaultVal: "Main",
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.X1",
			usage: `
              Grid.X1 is the X coordinate of the first corner of the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.X2",
			usage: `
              Grid.X2 is the X coordinate of the second corner of the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.Y1",
			usage: `
              Grid.Y1 is the Y coordinate of the first corner of the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.Y2",
			usage: `
              Grid.Y2 is the Y coordinate of the second corner of the domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx is the node spacing in the X direction.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy is the node spacing in the Y direction.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Grid.Overwrite",
			usage: `
              Grid.Overwrite replaces an existing MeshConfig section instead
              of keeping the persisted record.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("BATHYMESH")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, v, option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, v, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(gridCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("bathymesh: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Logger builds the logger used by the commands, honoring the verbose flag.
func Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	if Cfg.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "bathymesh",
	Short: "A structured bathymetry mesh generator.",
	Long: `BathyMesh builds regular rectangular grids over coastal domains and fills
them with depths interpolated from scattered survey soundings, producing input
meshes for wave and circulation models.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'BATHYMESH_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of BathyMesh.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("BathyMesh v%s\n", bathymesh.Version)
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Create a mesh grid record from corner points.",
	Long: `grid derives a rectangular grid from two corner points and node spacings
and persists it as a section of the mesh configuration record, where run can
load it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Grid(Cfg)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interpolate bathymetry onto the configured meshes.",
	Long: `run loads the survey point cloud, and for every configured mesh key
builds the grid from the mesh configuration record, interpolates depths onto
the grid nodes, and writes the depth table to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot [mesh key]",
	Short: "Render a computed depth grid to a PNG image.",
	Long: `plot loads the grid for the given mesh key from the mesh configuration
record, reads the matching depth table from the output directory, and renders
it as a pseudocolor map of elevation with missing nodes left blank.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Plot(Cfg, args[0])
	},
	DisableAutoGenTag: true,
}
