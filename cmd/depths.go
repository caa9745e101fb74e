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
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/octant/InputParameters"
	"github.com/notargets/octant/ncio"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
	"github.com/notargets/octant/vertical"
)

type DepthsModel struct {
	InputFile      string // YAML vertical parameters
	DataFiles      string // NetCDF file or glob
	Family         string
	ParallelDegree int
}

// DepthsCmd represents the depths command
var DepthsCmd = &cobra.Command{
	Use:   "depths",
	Short: "Evaluate s-coordinate depths from parameters or model output",
	Long: `
Prints the depths of a single water column described by a YAML file, or the
depth range of every time slice of a model output file (or glob of files).

octant depths -I shelf.yaml
octant depths -F "ocean_his_*.nc" -f w`,
	Run: func(cmd *cobra.Command, args []string) {
		dm := &DepthsModel{
			InputFile:      viper.GetString("depths.inputFile"),
			DataFiles:      viper.GetString("depths.dataFiles"),
			Family:         viper.GetString("depths.family"),
			ParallelDegree: viper.GetInt("depths.parallel"),
		}
		if err := RunDepths(dm, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

const exampleDepthsFile = `
########################################
Title: "Shelf"
hc: 5
theta_s: 5
theta_b: 0.4
Nlevels: 20
Vtransform: 2
Vstretching: 4
Family: rho # or w
h: 100
########################################
`

func RunDepths(dm *DepthsModel, w io.Writer) (err error) {
	switch {
	case len(dm.InputFile) != 0:
		var (
			data []byte
			ip   = &InputParameters.VerticalParameters{}
		)
		if data, err = ioutil.ReadFile(dm.InputFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return errors.Wrapf(err, "parsing %s", dm.InputFile)
		}
		if err = ip.Validate(); err != nil {
			return
		}
		ip.Print()
		return PrintColumn(ip, w)
	case len(dm.DataFiles) != 0:
		return PrintTimeRanges(dm, w)
	}
	fmt.Printf("Example File:%s\n", exampleDepthsFile)
	return fmt.Errorf("must supply an input parameters file (-I, --inputFile) or model output (-F, --dataFiles)")
}

func PrintColumn(ip *InputParameters.VerticalParameters, w io.Writer) (err error) {
	var z []float64
	if z, err = ip.Column(); err != nil {
		return
	}
	fmt.Fprintf(w, "%6s %12s\n", "k", "z")
	for k := len(z) - 1; k >= 0; k-- {
		fmt.Fprintf(w, "%6d %12.4f\n", k, z[k])
	}
	return
}

// PrintTimeRanges evaluates every time slice of the depths in the data files,
// spread over ParallelDegree workers, and prints the depth range of each.
func PrintTimeRanges(dm *DepthsModel, w io.Writer) (err error) {
	var (
		ds     *ncio.Dataset
		sc     *vertical.SCoordinate
		family types.PointFamily
	)
	if family, err = types.NewPointFamily(dm.Family); err != nil {
		return
	}
	if ds, err = ncio.Resolve(dm.DataFiles); err != nil {
		return
	}
	defer ds.Close()
	if sc, err = ncio.ReadDepths(ds, family, utils.Matrix{}); err != nil {
		return
	}
	var (
		nt     = sc.NumTimes()
		degree = dm.ParallelDegree
	)
	if nt == 0 {
		nt = 1
	}
	if degree < 1 {
		degree = runtime.NumCPU()
	}
	if degree > nt {
		degree = nt
	}
	var (
		pm    = utils.NewPartitionMap(degree, nt)
		// Each bucket keeps its own [zmin, zmax] per time slice
		spans = make([][][2]float64, degree)
	)
	if err = pm.Run(func(bn, kMin, kMax int) (err error) {
		spans[bn] = make([][2]float64, pm.GetBucketDimension(bn))
		for k := range spans[bn] {
			var z []utils.Matrix
			if z, err = sc.TimeSlice(pm.GetGlobalK(k, bn)); err != nil {
				return
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, level := range z {
				lo, hi = math.Min(lo, level.Min()), math.Max(hi, level.Max())
			}
			spans[bn][k] = [2]float64{lo, hi}
		}
		return
	}); err != nil {
		return
	}
	Log.WithFields(memUsage(logrus.Fields{"times": nt, "workers": degree})).Debug("depths evaluated")
	p := sc.Params()
	fmt.Fprintf(w, "%d levels (%s), Vtransform %d, Vstretching %d\n", sc.NumLevels(), p.Family, p.Transform, p.Stretch)
	fmt.Fprintf(w, "%6s %12s %12s\n", "t", "zmin", "zmax")
	for t := 0; t < nt; t++ {
		k, _, bn := pm.GetLocalK(t)
		fmt.Fprintf(w, "%6d %12.4f %12.4f\n", t, spans[bn][k][0], spans[bn][k][1])
	}
	return
}

func init() {
	rootCmd.AddCommand(DepthsCmd)
	DepthsCmd.Flags().StringP("inputFile", "I", "", "YAML file of vertical coordinate parameters")
	DepthsCmd.Flags().StringP("dataFiles", "F", "", "NetCDF file or glob of model output")
	DepthsCmd.Flags().StringP("family", "f", "rho", "vertical point family, rho or w")
	DepthsCmd.Flags().IntP("parallel", "p", 0, "number of workers, 0 for one per cpu")
	for _, name := range []string{"inputFile", "dataFiles", "family", "parallel"} {
		_ = viper.BindPFlag("depths."+name, DepthsCmd.Flags().Lookup(name))
	}
}
