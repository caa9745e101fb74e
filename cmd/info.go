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
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/octant/ncio"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info [file or glob]...",
	Short: "List the dimensions and variables of NetCDF files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var src interface{} = args
		if len(args) == 1 {
			src = args[0]
		}
		if err := RunInfo(src, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func RunInfo(src interface{}, w io.Writer) (err error) {
	var ds *ncio.Dataset
	if ds, err = ncio.Resolve(src); err != nil {
		return
	}
	defer ds.Close()
	fmt.Fprintf(w, "files:\n")
	for _, p := range ds.Paths() {
		fmt.Fprintf(w, "\t%s\n", p)
	}
	var (
		dims = ds.Dimensions()
		keys = make([]string, 0, len(dims))
	)
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "dimensions:\n")
	for _, k := range keys {
		fmt.Fprintf(w, "\t%s = %d\n", k, dims[k])
	}
	fmt.Fprintf(w, "variables:\n")
	for _, name := range ds.Variables() {
		v, err := ds.Variable(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\t%s(%s) %v\n", name, strings.Join(v.Dims(), ", "), v.Shape())
	}
	return
}

func init() {
	rootCmd.AddCommand(InfoCmd)
}
