package utils

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DOK is an assembly-time sparse matrix. Convert it to a CSR before solving.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

// AddAt accumulates val into entry (i, j).
func (m DOK) AddAt(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() (R CSR) {
	R = CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
	R.compress()
	return
}

// CSR is a compressed sparse row matrix ready for products.
type CSR struct {
	M      *sparse.CSR
	name   string
	indptr []int
	ind    []int
	data   []float64
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

// NNZ is the number of stored entries.
func (m CSR) NNZ() int { return len(m.data) }

func (m *CSR) compress() {
	var (
		nr, _  = m.M.Dims()
		counts = make([]int, nr+1)
		rows   []int
		cols   []int
		vals   []float64
	)
	m.M.DoNonZero(func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		vals = append(vals, v)
		counts[i+1]++
	})
	for i := 0; i < nr; i++ {
		counts[i+1] += counts[i]
	}
	m.indptr = counts
	m.ind = make([]int, len(vals))
	m.data = make([]float64, len(vals))
	next := make([]int, nr)
	copy(next, counts[:nr])
	for k, i := range rows {
		m.ind[next[i]] = cols[k]
		m.data[next[i]] = vals[k]
		next[i]++
	}
}

// MulVecTo computes dst = m * x.
func (m CSR) MulVecTo(dst, x []float64) {
	nr, nc := m.Dims()
	if len(dst) != nr || len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: %d x %d times %d into %d", nr, nc, len(x), len(dst)))
	}
	for i := 0; i < nr; i++ {
		var sum float64
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			sum += m.data[k] * x[m.ind[k]]
		}
		dst[i] = sum
	}
}

// Diagonal returns the main diagonal of a square matrix.
func (m CSR) Diagonal() (d []float64) {
	nr, _ := m.Dims()
	d = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if m.ind[k] == i {
				d[i] = m.data[k]
			}
		}
	}
	return
}

// SolveCG solves A x = b for a symmetric positive definite A using Jacobi
// preconditioned conjugate gradients. x holds the initial guess on entry and
// the solution on return.
func (m CSR) SolveCG(b, x []float64, tol float64, maxIter int) (iters int, err error) {
	var (
		n    = len(b)
		r    = make([]float64, n)
		z    = make([]float64, n)
		p    = make([]float64, n)
		Ap   = make([]float64, n)
		diag = m.Diagonal()
		bNrm = floats.Norm(b, 2)
	)
	if len(x) != n {
		err = fmt.Errorf("solution vector length %d does not match rhs length %d", len(x), n)
		return
	}
	if bNrm == 0 {
		for i := range x {
			x[i] = 0
		}
		return
	}
	precondition := func() {
		for i := range z {
			if diag[i] != 0 {
				z[i] = r[i] / diag[i]
			} else {
				z[i] = r[i]
			}
		}
	}
	m.MulVecTo(Ap, x)
	floats.SubTo(r, b, Ap)
	precondition()
	copy(p, z)
	rz := floats.Dot(r, z)
	for iters = 0; iters < maxIter; iters++ {
		if floats.Norm(r, 2)/bNrm < tol {
			return
		}
		m.MulVecTo(Ap, p)
		pAp := floats.Dot(p, Ap)
		if pAp == 0 || math.IsNaN(pAp) {
			err = fmt.Errorf("conjugate gradient breakdown at iteration %d", iters)
			return
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		precondition()
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	if floats.Norm(r, 2)/bNrm >= tol {
		err = fmt.Errorf("conjugate gradient did not converge in %d iterations", maxIter)
	}
	return
}
