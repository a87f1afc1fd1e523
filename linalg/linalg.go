// linalg.go --  This file is part of goSCF project.
// Mirzaeva Irina, 2025
//
//	goSCF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TrilSize is the length of a packed lower triangle of an n x n matrix.
func TrilSize(n int) int { return n * (n + 1) / 2 }

// TrilIndex maps a (row, col) pair with row >= col to its packed offset.
// The index map is part of the integral-provider contract: packed tensors
// store element (i, j) at i*(i+1)/2 + j.
func TrilIndex(i, j int) int {
	if j > i {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}

// PackTril packs the lower triangle of a symmetric matrix row by row.
func PackTril(a mat.Symmetric) []float64 {
	n := a.SymmetricDim()
	res := make([]float64, TrilSize(n))
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			res[TrilIndex(i, j)] = a.At(i, j)
		}
	}
	return res
}

// UnpackTril restores a full symmetric matrix from its packed lower
// triangle.
func UnpackTril(n int, packed []float64) (*mat.SymDense, error) {
	if len(packed) != TrilSize(n) {
		return nil, fmt.Errorf("packed length %d does not match dimension %d", len(packed), n)
	}
	res := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			res.SetSym(i, j, packed[TrilIndex(i, j)])
		}
	}
	return res, nil
}

// MatrixSqrtInverse builds S^{-1/2} for a positive definite symmetric
// matrix via its eigendecomposition.
func MatrixSqrtInverse(s *mat.SymDense) (*mat.Dense, error) {
	n := s.SymmetricDim()
	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(s, true); !ok {
		return nil, fmt.Errorf("eigendecomposition failed")
	}
	vals := eigsym.Values(nil)
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	invSqrt := make([]float64, n)
	for i, v := range vals {
		if v <= 0 {
			return nil, fmt.Errorf("matrix not positive definite: eigenvalue %g", v)
		}
		invSqrt[i] = 1.0 / math.Sqrt(v)
	}
	diagM := mat.NewDiagDense(n, invSqrt)
	var tmp, res mat.Dense
	tmp.Mul(&ev, diagM)
	res.Mul(&tmp, ev.T())
	return &res, nil
}

// EigGenSym solves the generalized symmetric eigenproblem F C = S C E
// given X = S^{-1/2}: diagonalize X F X and back-transform the vectors.
// Eigenvalues come out ascending, vectors as the columns of C.
func EigGenSym(f mat.Matrix, x *mat.Dense) ([]float64, *mat.Dense, error) {
	n, _ := f.Dims()
	var ft mat.Dense
	ft.Mul(x, f)
	ft.Mul(&ft, x)
	// symmetrize against round-off before factorizing
	fsym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			fsym.SetSym(i, j, 0.5*(ft.At(i, j)+ft.At(j, i)))
		}
	}
	var eigsym mat.EigenSym
	if ok := eigsym.Factorize(fsym, true); !ok {
		return nil, nil, fmt.Errorf("transformed matrix eigendecomposition failed")
	}
	vals := eigsym.Values(nil)
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	var c mat.Dense
	c.Mul(x, &ev)
	return vals, &c, nil
}
