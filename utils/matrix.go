package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense, row-major 2-D field. Missing values are NaN.
// Every Matrix owns a contiguous backing array, so DataP is always the full
// field in row-major order.
type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var (
		m    *mat.Dense
		data []float64
	)
	if nr < 1 || nc < 1 {
		panic(fmt.Errorf("matrix dimensions must be positive, have %d x %d", nr, nc))
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, nr*nc)
	}
	m = mat.NewDense(nr, nc, data)
	R = Matrix{
		M:     m,
		DataP: data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// NewMatrixConst returns an nr x nc matrix filled with val.
func NewMatrixConst(nr, nc int, val float64) (R Matrix) {
	R = NewMatrix(nr, nc, ConstArray(nr*nc, val))
	return
}

// NewMatrixFromRows builds a matrix from a rectangular slice of rows.
func NewMatrixFromRows(rows [][]float64) (R Matrix, err error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		err = fmt.Errorf("matrix must have at least one row and column")
		return
	}
	var (
		nr, nc = len(rows), len(rows[0])
		data   = make([]float64, 0, nr*nc)
	)
	for i, row := range rows {
		if len(row) != nc {
			err = fmt.Errorf("row %d has %d columns, expected %d", i, len(row), nc)
			return
		}
		data = append(data, row...)
	}
	R = NewMatrix(nr, nc, data)
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.DataP[i*m.cols()+j] }
func (m Matrix) T() mat.Matrix       { return m.M.T() }

func (m Matrix) cols() (nc int) {
	_, nc = m.M.Dims()
	return
}

// IsEmpty is true for the zero Matrix value.
func (m Matrix) IsEmpty() bool { return m.M == nil }

func (m Matrix) Set(i, j int, val float64) {
	m.checkWritable()
	m.DataP[i*m.cols()+j] = val
}

func (m Matrix) Len() int { return len(m.DataP) }

// SameShape reports whether m and A have identical dimensions.
func (m Matrix) SameShape(A Matrix) bool {
	nr, nc := m.Dims()
	nrA, ncA := A.Dims()
	return nr == nrA && nc == ncA
}

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// Slice returns a copy of rows [I, K) and columns [J, L).
func (m Matrix) Slice(I, K, J, L int) (R Matrix) { // Does not change receiver
	var (
		nrR   = K - I
		ncR   = L - J
		nr, _ = m.Dims()
	)
	if I < 0 || J < 0 || K > nr || L > m.cols() || nrR < 1 || ncR < 1 {
		panic(fmt.Errorf("invalid slice [%d:%d, %d:%d] of %d x %d matrix", I, K, J, L, nr, m.cols()))
	}
	dataR := make([]float64, nrR*ncR)
	for i := I; i < K; i++ {
		copy(dataR[(i-I)*ncR:(i-I+1)*ncR], m.DataP[i*m.cols()+J:i*m.cols()+L])
	}
	R = NewMatrix(nrR, ncR, dataR)
	return
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

// Apply returns a new matrix with f applied to every element.
func (m Matrix) Apply(f func(val float64) float64) (R Matrix) { // Does not change receiver
	R = m.Copy()
	for i, val := range R.DataP {
		R.DataP[i] = f(val)
	}
	return
}

// Combine returns f(m[i,j], A[i,j]) elementwise; shapes must agree.
func (m Matrix) Combine(A Matrix, f func(a, b float64) float64) (R Matrix) { // Does not change receiver
	if !m.SameShape(A) {
		nr, nc := m.Dims()
		nrA, ncA := A.Dims()
		panic(fmt.Errorf("dimensions mismatch: %d x %d vs %d x %d", nr, nc, nrA, ncA))
	}
	R = m.Copy()
	for i := range R.DataP {
		R.DataP[i] = f(m.DataP[i], A.DataP[i])
	}
	return
}

func (m Matrix) Add(A Matrix) Matrix {
	return m.Combine(A, func(a, b float64) float64 { return a + b })
}

func (m Matrix) Subtract(A Matrix) Matrix {
	return m.Combine(A, func(a, b float64) float64 { return a - b })
}

func (m Matrix) ElMul(A Matrix) Matrix {
	return m.Combine(A, func(a, b float64) float64 { return a * b })
}

func (m Matrix) AddScalar(a float64) (R Matrix) {
	R = m.Copy()
	floats.AddConst(a, R.DataP)
	return
}

func (m Matrix) Scale(a float64) (R Matrix) {
	R = m.Copy()
	floats.Scale(a, R.DataP)
	return
}

// Min and Max ignore NaN entries; an all-NaN matrix returns NaN.
func (m Matrix) Min() (min float64) {
	min = math.NaN()
	for _, val := range m.DataP {
		if math.IsNaN(val) {
			continue
		}
		if math.IsNaN(min) || val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = math.NaN()
	for _, val := range m.DataP {
		if math.IsNaN(val) {
			continue
		}
		if math.IsNaN(max) || val > max {
			max = val
		}
	}
	return
}

// NaNMask returns true where m is NaN.
func (m Matrix) NaNMask() (mask []bool) {
	mask = make([]bool, len(m.DataP))
	for i, val := range m.DataP {
		mask[i] = math.IsNaN(val)
	}
	return
}

func (m Matrix) HasNaN() bool {
	return floats.HasNaN(m.DataP)
}

// Row returns a copy of row i.
func (m Matrix) Row(i int) (row []float64) {
	nc := m.cols()
	row = make([]float64, nc)
	copy(row, m.DataP[i*nc:(i+1)*nc])
	return
}

// Rows returns the matrix as a slice of row copies.
func (m Matrix) Rows() (rows [][]float64) {
	nr, _ := m.Dims()
	rows = make([][]float64, nr)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return
}

func (m Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.M, mat.Squeeze()))
}
