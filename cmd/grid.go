/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/octant/InputParameters"
	"github.com/notargets/octant/cgrid"
	"github.com/notargets/octant/geometry2D"
	"github.com/notargets/octant/ncio"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

type GridModel struct {
	InputFile  string
	OutputFile string
}

// GridCmd represents the grid command
var GridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Generate a C-grid inside a boundary polygon and write it as a GRD file",
	Long: `
Generates a curvilinear grid inside a four cornered boundary polygon, masks
land polygons, reports the departure from orthogonality and writes a ROMS GRD
NetCDF file.

octant grid -I basin.yaml -o basin_grd.nc`,
	Run: func(cmd *cobra.Command, args []string) {
		gm := &GridModel{
			InputFile:  viper.GetString("grid.inputFile"),
			OutputFile: viper.GetString("grid.outputFile"),
		}
		ip, err := readGridInput(gm)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		ip.Print()
		if err = RunGrid(gm, ip, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

const exampleGridFile = `
########################################
Title: "Test Basin"
Ny: 41 # nodes, one more than cells
Nx: 81
ULIdx: 3
Boundary: # x, y, beta; counterclockwise
  - [0, 0, 1]
  - [80000, 0, 1]
  - [80000, 40000, 1]
  - [0, 40000, 1]
Focus:
  - {Xo: 0.5, Yo: 0.5, Factor: 2, Rx: 0.1}
Land:
  - [[30000, 15000], [50000, 15000], [40000, 25000]]
Depth: 100
Projection: "" # e.g. "+proj=merc +lon_0=-70 +datum=WGS84 +units=m" for lon, lat boundaries
########################################
`

func readGridInput(gm *GridModel) (ip *InputParameters.GridParameters, err error) {
	if len(gm.InputFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleGridFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputFile)")
	}
	var data []byte
	if data, err = ioutil.ReadFile(gm.InputFile); err != nil {
		return
	}
	ip = &InputParameters.GridParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", gm.InputFile)
	}
	err = ip.Validate()
	return
}

// BuildGrid generates the grid described by ip and applies its land mask,
// bathymetry and Coriolis parameter.
func BuildGrid(ip *InputParameters.GridParameters) (g *cgrid.CGrid, err error) {
	var (
		b    cgrid.Boundary
		opts cgrid.GridgenOptions
	)
	if b, err = ip.NewBoundary(); err != nil {
		return
	}
	if opts, err = ip.Options(); err != nil {
		return
	}
	if g, err = cgrid.Generate(b, opts, geometry2D.TransfiniteSolver{}); err != nil {
		return
	}
	ny, nx := g.Shape()
	if ip.Coriolis != 0 && !g.IsGeographic() {
		x, y := g.Vertices()
		if g, err = cgrid.New(x, y, cgrid.WithMask(g.MaskRho()),
			cgrid.WithCoriolis(utils.NewMatrixConst(ny, nx, ip.Coriolis))); err != nil {
			return
		}
	}
	for n, poly := range ip.Land {
		if poly, err = projectPolygon(opts.Proj, poly); err != nil {
			return
		}
		var count int
		if count, err = g.MaskVertices(poly, 0); err != nil {
			return nil, errors.Wrapf(err, "land polygon %d", n)
		}
		Log.WithFields(logrus.Fields{"polygon": n, "cells": count}).Debug("masked land")
	}
	if ip.Depth > 0 {
		if err = g.SetH(utils.NewMatrixConst(ny, nx, ip.Depth)); err != nil {
			return
		}
	}
	return
}

// projectPolygon maps lon, lat polygon vertices onto the grid plane.
func projectPolygon(p cgrid.Projection, poly [][]float64) (xy [][]float64, err error) {
	if p == nil {
		return poly, nil
	}
	xy = make([][]float64, len(poly))
	for n, v := range poly {
		if len(v) != 2 {
			return nil, errors.Wrapf(types.ErrValidation, "polygon vertex %d has %d coordinates", n, len(v))
		}
		xy[n] = make([]float64, 2)
		if xy[n][0], xy[n][1], err = p.Forward(v[0], v[1]); err != nil {
			return
		}
	}
	return
}

func RunGrid(gm *GridModel, ip *InputParameters.GridParameters, w io.Writer) (err error) {
	var g *cgrid.CGrid
	if g, err = BuildGrid(ip); err != nil {
		return
	}
	ny, nx := g.Shape()
	var (
		ortho = g.Orthogonality()
		worst float64
		wet   int
	)
	for _, val := range ortho.DataP {
		if !math.IsNaN(val) {
			worst = math.Max(worst, math.Abs(val))
		}
	}
	for _, m := range g.MaskRho().DataP {
		if m != 0 {
			wet++
		}
	}
	fmt.Fprintf(w, "[%d, %d]\t\t= Rho Cells\n", ny, nx)
	fmt.Fprintf(w, "%d\t\t\t= Wet Cells\n", wet)
	fmt.Fprintf(w, "%8.4f\t\t= Max Departure From Orthogonality (degrees)\n", worst*180/math.Pi)
	if len(gm.OutputFile) == 0 {
		return
	}
	if err = ncio.WriteGridFile(gm.OutputFile, g, ncio.WriteOptions{FullOutput: ip.FullOutput, Author: ip.Author}); err != nil {
		return
	}
	Log.WithFields(memUsage(logrus.Fields{"file": gm.OutputFile})).Debug("grid written")
	fmt.Fprintf(w, "[%s]\t= Grid File\n", gm.OutputFile)
	return
}

func init() {
	rootCmd.AddCommand(GridCmd)
	GridCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the boundary, resolution and land")
	GridCmd.Flags().StringP("outputFile", "o", "", "GRD NetCDF file to write")
	_ = viper.BindPFlag("grid.inputFile", GridCmd.Flags().Lookup("inputFile"))
	_ = viper.BindPFlag("grid.outputFile", GridCmd.Flags().Lookup("outputFile"))
}
