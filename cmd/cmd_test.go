package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/octant/InputParameters"
	"github.com/notargets/octant/ncio"
)

func TestRunGrid(t *testing.T) {
	var (
		dir = t.TempDir()
		gm  = &GridModel{OutputFile: filepath.Join(dir, "basin_grd.nc")}
		ip  InputParameters.GridParameters
		out bytes.Buffer
	)
	fileInput := []byte(`
Title: Test Basin
Ny: 11
Nx: 21
ULIdx: 3
Boundary:
  - [0, 0, 1]
  - [2000, 0, 1]
  - [2000, 1000, 1]
  - [0, 1000, 1]
Land:
  - [[900, 400], [1200, 400], [1200, 700], [900, 700]]
Depth: 50
Coriolis: 1.e-4
FullOutput: true
`)
	require.NoError(t, ip.Parse(fileInput))
	require.NoError(t, ip.Validate())
	{
		g, err := BuildGrid(&ip)
		require.NoError(t, err)
		ny, nx := g.Shape()
		assert.Equal(t, [2]int{10, 20}, [2]int{ny, nx})
		// Cell centers at x = 950, 1050, 1150 and y = 450, 550, 650
		var dry int
		for _, m := range g.MaskRho().DataP {
			if m == 0 {
				dry++
			}
		}
		assert.Equal(t, 9, dry)
		f, err := g.Coriolis()
		require.NoError(t, err)
		assert.Equal(t, 1.e-4, f.At(3, 7))
		assert.Equal(t, 50., g.H().At(0, 0))
		assert.InDelta(t, 0, g.Orthogonality().Max(), 1.e-9)
	}
	require.NoError(t, RunGrid(gm, &ip, &out))
	assert.Contains(t, out.String(), "[10, 20]")
	assert.Contains(t, out.String(), "191\t")
	{
		g, err := ncio.ReadGrid(gm.OutputFile)
		require.NoError(t, err)
		assert.InDelta(t, 0.01, g.Pm().At(2, 2), 1.e-12)
		assert.Equal(t, 0., g.MaskRho().At(4, 9))
	}
	{
		out.Reset()
		require.NoError(t, RunInfo(gm.OutputFile, &out))
		assert.Contains(t, out.String(), "mask_rho(eta_rho, xi_rho) [10 20]")
		assert.Contains(t, out.String(), "xi_vert = 21")
	}
	{
		// No output file only reports
		out.Reset()
		require.NoError(t, RunGrid(&GridModel{}, &ip, &out))
		assert.NotContains(t, out.String(), "Grid File")
		_, err := readGridInput(&GridModel{})
		assert.Error(t, err)
	}
}

func writeHistory(t *testing.T, path string) {
	type ncVar struct {
		dims []string
		data interface{}
	}
	var (
		names = []string{"Vstretching", "Vtransform", "h", "hc", "s_rho", "theta_b", "theta_s", "zeta"}
		vars  = map[string]ncVar{
			"Vstretching": {[]string{}, []int32{4}},
			"Vtransform":  {[]string{}, []int32{2}},
			"h":           {[]string{"eta_rho", "xi_rho"}, []float64{20, 40, 60, 80}},
			"hc":          {[]string{}, []float64{5}},
			"s_rho":       {[]string{"s_rho"}, []float64{-0.75, -0.25}},
			"theta_b":     {[]string{}, []float64{0.4}},
			"theta_s":     {[]string{}, []float64{5}},
			"zeta":        {[]string{"ocean_time", "eta_rho", "xi_rho"}, []float64{0, 0, 0, 0, 1, 1, 1, 1, -1, -1, -1, -1}},
		}
		h    = cdf.NewHeader([]string{"ocean_time", "s_rho", "eta_rho", "xi_rho"}, []int{0, 2, 2, 2})
	)
	for _, name := range names {
		if _, ok := vars[name].data.([]int32); ok {
			h.AddVariable(name, vars[name].dims, []int32{0})
		} else {
			h.AddVariable(name, vars[name].dims, []float64{0})
		}
	}
	h.Define()
	fid, err := os.Create(path)
	require.NoError(t, err)
	defer fid.Close()
	f, err := cdf.Create(fid, h)
	require.NoError(t, err)
	for _, name := range names {
		// io.EOF marks the end of a fixed size variable
		if _, err = f.Writer(name, nil, nil).Write(vars[name].data); err != io.EOF {
			require.NoError(t, err)
		}
	}
	require.NoError(t, cdf.UpdateNumRecs(fid))
}

// fields parses a printed table row, rounded as printed.
func fields(t *testing.T, line string) (vals []float64) {
	for _, f := range strings.Fields(line) {
		val, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		vals = append(vals, val)
	}
	return
}

func TestRunDepths(t *testing.T) {
	var (
		dir = t.TempDir()
		out bytes.Buffer
	)
	{
		yamlFile := filepath.Join(dir, "shelf.yaml")
		require.NoError(t, os.WriteFile(yamlFile, []byte(`
hc: 5
theta_s: 5
theta_b: 0.4
Nlevels: 6
Vtransform: 2
Vstretching: 4
Family: w
h: 100
`), 0644))
		require.NoError(t, RunDepths(&DepthsModel{InputFile: yamlFile}, &out))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		// Header plus the 7 w levels, surface first
		assert.Equal(t, 8, len(lines))
		assert.Equal(t, []float64{6, 0}, fields(t, lines[1]))
		assert.Equal(t, []float64{0, -100}, fields(t, lines[7]))
	}
	{
		ncFile := filepath.Join(dir, "ocean_his.nc")
		writeHistory(t, ncFile)
		out.Reset()
		require.NoError(t, RunDepths(&DepthsModel{DataFiles: ncFile, Family: "w", ParallelDegree: 2}, &out))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Equal(t, 5, len(lines))
		assert.Contains(t, lines[0], "3 levels (w)")
		// Bottom is -h and the top follows zeta
		assert.Equal(t, []float64{0, -80, 0}, fields(t, lines[2]))
		assert.Equal(t, []float64{1, -80, 1}, fields(t, lines[3]))
		assert.Equal(t, []float64{2, -80, -1}, fields(t, lines[4]))
	}
	{
		assert.Error(t, RunDepths(&DepthsModel{}, &out))
		assert.Error(t, RunDepths(&DepthsModel{DataFiles: filepath.Join(dir, "none_*.nc"), Family: "rho"}, &out))
		assert.Error(t, RunDepths(&DepthsModel{DataFiles: filepath.Join(dir, "ocean_his.nc"), Family: "q"}, &out))
	}
}
