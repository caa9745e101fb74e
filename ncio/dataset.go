// Package ncio reads and writes ROMS style NetCDF (classic format) grid and
// history files.
package ncio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

var Log logrus.FieldLogger = logrus.StandardLogger()

// Dataset is one NetCDF file or several files sharing a header whose record
// variables are concatenated in file name order.
type Dataset struct {
	paths []string
	fids  []*os.File
	files []*cdf.File
	nrecs []int // records per file, from the file size
}

// Open opens one file, or several as a multi-file dataset.
func Open(paths ...string) (ds *Dataset, err error) {
	if len(paths) == 0 {
		err = errors.Wrap(types.ErrValidation, "no files to open")
		return
	}
	paths = append([]string(nil), paths...)
	sort.Strings(paths)
	ds = &Dataset{paths: paths}
	for _, p := range paths {
		var (
			fid *os.File
			cf  *cdf.File
		)
		if fid, err = os.Open(p); err != nil {
			ds.Close()
			return nil, errors.Wrapf(err, "opening %s", p)
		}
		ds.fids = append(ds.fids, fid)
		if cf, err = cdf.Open(fid); err != nil {
			ds.Close()
			return nil, errors.Wrapf(err, "reading NetCDF header of %s (only classic format is supported)", p)
		}
		var fi os.FileInfo
		if fi, err = fid.Stat(); err != nil {
			ds.Close()
			return nil, errors.Wrapf(err, "reading size of %s", p)
		}
		ds.files = append(ds.files, cf)
		ds.nrecs = append(ds.nrecs, int(cf.Header.NumRecs(fi.Size())))
	}
	return
}

// OpenGlob opens every file matching pattern.
func OpenGlob(pattern string) (ds *Dataset, err error) {
	var paths []string
	if paths, err = filepath.Glob(pattern); err != nil {
		return nil, errors.Wrapf(types.ErrValidation, "bad file pattern %q: %v", pattern, err)
	}
	if len(paths) == 0 {
		return nil, errors.Wrapf(types.ErrValidation, "no files match %q", pattern)
	}
	return Open(paths...)
}

// Resolve accepts a file name or glob pattern, a list of file names, or an
// open Dataset, which is returned as is.
func Resolve(src interface{}) (ds *Dataset, err error) {
	switch s := src.(type) {
	case *Dataset:
		return s, nil
	case string:
		if strings.ContainsAny(s, "*?[") {
			return OpenGlob(s)
		}
		return Open(s)
	case []string:
		return Open(s...)
	default:
		return nil, errors.Wrapf(types.ErrUnsupported, "cannot open a dataset from %T", src)
	}
}

func (ds *Dataset) Close() (err error) {
	for _, fid := range ds.fids {
		if e := fid.Close(); e != nil && err == nil {
			err = e
		}
	}
	ds.fids, ds.files, ds.nrecs = nil, nil, nil
	return
}

func (ds *Dataset) Paths() []string { return ds.paths }

func (ds *Dataset) header() *cdf.Header { return ds.files[0].Header }

func (ds *Dataset) Variables() []string { return ds.header().Variables() }

func (ds *Dataset) HasVariable(name string) bool {
	for _, v := range ds.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// DimLen finds the length of a named dimension through the variables that
// use it. Record dimensions count the records of every file.
func (ds *Dataset) DimLen(name string) (n int, err error) {
	for _, v := range ds.Variables() {
		for k, d := range ds.header().Dimensions(v) {
			if d != name {
				continue
			}
			var vr *Variable
			if vr, err = ds.Variable(v); err != nil {
				return
			}
			return vr.Shape()[k], nil
		}
	}
	err = errors.Wrapf(types.ErrMissingVariable, "no variable uses dimension %s", name)
	return
}

// Dimensions lists every dimension used by a variable with its length.
func (ds *Dataset) Dimensions() (dims map[string]int) {
	dims = make(map[string]int)
	for _, v := range ds.Variables() {
		vr, _ := ds.Variable(v)
		for k, d := range vr.Dims() {
			dims[d] = vr.Shape()[k]
		}
	}
	return
}

// Attribute returns a global attribute, nil when absent.
func (ds *Dataset) Attribute(name string) interface{} {
	return ds.header().GetAttribute("", name)
}

func (ds *Dataset) Variable(name string) (v *Variable, err error) {
	if !ds.HasVariable(name) {
		err = errors.Wrapf(types.ErrMissingVariable, "variable %s not in %s", name, strings.Join(ds.paths, ", "))
		return
	}
	h := ds.header()
	v = &Variable{
		ds:     ds,
		Name:   name,
		dims:   h.Dimensions(name),
		record: h.IsRecordVariable(name),
	}
	v.shape = append([]int(nil), h.Lengths(name)...)
	if v.record {
		v.shape[0] = 0
		for _, nr := range ds.nrecs {
			v.recs = append(v.recs, nr)
			v.shape[0] += nr
		}
	}
	return
}

// Variable reads one NetCDF variable as float64 with _FillValue and
// missing_value entries replaced by NaN.
type Variable struct {
	ds     *Dataset
	Name   string
	dims   []string
	shape  []int
	record bool
	recs   []int // records per file
}

func (v *Variable) Dims() []string { return v.dims }

func (v *Variable) Shape() []int { return v.shape }

func (v *Variable) IsRecord() bool { return v.record }

func (v *Variable) NumRecords() int {
	if !v.record {
		return 0
	}
	return v.shape[0]
}

// Attribute returns an attribute of the variable, nil when absent.
func (v *Variable) Attribute(name string) interface{} {
	return v.ds.header().GetAttribute(v.Name, name)
}

// ReadAll reads the whole variable, every record of every file.
func (v *Variable) ReadAll() (data []float64, err error) {
	if !v.record {
		return v.read(v.ds.files[0], nil, nil)
	}
	for t := 0; t < v.NumRecords(); t++ {
		var rec []float64
		if rec, err = v.ReadRecord(t); err != nil {
			return
		}
		data = append(data, rec...)
	}
	return
}

// ReadRecord reads record t; the dataset's files are searched in order.
func (v *Variable) ReadRecord(t int) (data []float64, err error) {
	if !v.record {
		err = errors.Wrapf(types.ErrValidation, "%s has no record dimension", v.Name)
		return
	}
	if t < 0 || t >= v.NumRecords() {
		err = errors.Wrapf(types.ErrValidation, "record %d of %s out of range [0, %d)", t, v.Name, v.NumRecords())
		return
	}
	var fi int
	for fi = range v.recs {
		if t < v.recs[fi] {
			break
		}
		t -= v.recs[fi]
	}
	begin, end := make([]int, len(v.shape)), append([]int(nil), v.shape...)
	begin[0], end[0] = t, t+1
	return v.read(v.ds.files[fi], begin, end)
}

// Matrix reads a 2-D variable, or record t of a 3-D record variable.
func (v *Variable) Matrix(t ...int) (m utils.Matrix, err error) {
	var (
		data []float64
		dims = v.shape
	)
	switch {
	case len(dims) == 2 && !v.record:
		data, err = v.ReadAll()
	case len(dims) == 3 && v.record && len(t) == 1:
		data, err = v.ReadRecord(t[0])
		dims = dims[1:]
	default:
		err = errors.Wrapf(types.ErrValidation, "%s with dimensions %v is not a 2-D field", v.Name, v.dims)
	}
	if err != nil {
		return
	}
	m = utils.NewMatrix(dims[0], dims[1], data)
	return
}

// Scalar reads the first value of the variable.
func (v *Variable) Scalar() (val float64, err error) {
	var data []float64
	if v.record {
		data, err = v.ReadRecord(0)
	} else {
		data, err = v.ReadAll()
	}
	if err != nil {
		return
	}
	if len(data) == 0 {
		err = errors.Wrapf(types.ErrValidation, "%s is empty", v.Name)
		return
	}
	return data[0], nil
}

func (v *Variable) read(f *cdf.File, begin, end []int) (data []float64, err error) {
	r := f.Reader(v.Name, begin, end)
	buf := r.Zero(-1)
	if _, err = r.Read(buf); err != nil {
		return nil, errors.Wrapf(err, "reading %s", v.Name)
	}
	if data, err = toFloat64(buf); err != nil {
		return nil, errors.Wrapf(err, "reading %s", v.Name)
	}
	for _, a := range []string{"_FillValue", "missing_value"} {
		fill, ok := attrFloat(v.Attribute(a))
		if !ok {
			continue
		}
		for i, d := range data {
			if d == fill {
				data[i] = math.NaN()
			}
		}
	}
	return
}

func toFloat64(buf interface{}) (data []float64, err error) {
	switch b := buf.(type) {
	case []float64:
		data = b
	case []float32:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	case []int32:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	case []int16:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	case []int8:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	case []uint8:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	default:
		err = errors.Wrapf(types.ErrUnsupported, "non numeric data of type %T", buf)
	}
	return
}

// attrFloat converts a numeric attribute to its first value.
func attrFloat(attr interface{}) (val float64, ok bool) {
	if attr == nil {
		return
	}
	data, err := toFloat64(attr)
	if err != nil || len(data) == 0 {
		return
	}
	return data[0], true
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s%v %v", v.Name, v.dims, v.shape)
}
