// diis.go --  This file is part of goSCF project.
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
package scf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DIIS accelerates SCF convergence by extrapolating the Fock matrix
// from the history of orthonormal-basis error vectors
// r = X (F D S - S D F) X.
type DIIS struct {
	space int
	focks [][2]*mat.Dense
	errs  [][2]*mat.Dense
}

func NewDIIS(space int) *DIIS {
	if space < 2 {
		space = 2
	}
	return &DIIS{space: space}
}

// Residual computes the orthonormalized commutator error of one spin
// channel.
func Residual(f, d mat.Matrix, s *mat.SymDense, x *mat.Dense) *mat.Dense {
	var fds, sdf, comm, t, r mat.Dense
	var ds, df mat.Dense
	ds.Mul(d, s)
	fds.Mul(f, &ds)
	df.Mul(d, f)
	sdf.Mul(s, &df)
	comm.Sub(&fds, &sdf)
	t.Mul(x, &comm)
	r.Mul(&t, x)
	return &r
}

// Push appends a Fock/error pair to the history, evicting the oldest
// entry when the subspace is full.
func (d *DIIS) Push(f [2]*mat.Dense, e [2]*mat.Dense) {
	d.focks = append(d.focks, f)
	d.errs = append(d.errs, e)
	if len(d.focks) > d.space {
		d.focks = d.focks[1:]
		d.errs = d.errs[1:]
	}
}

// Len returns the current subspace size.
func (d *DIIS) Len() int { return len(d.focks) }

// DRMS is the root-mean-square of the latest error vectors of both
// spin channels.
func (d *DIIS) DRMS() float64 {
	if len(d.errs) == 0 {
		return 0
	}
	last := d.errs[len(d.errs)-1]
	var sq []float64
	for s := 0; s < 2; s++ {
		raw := last[s].RawMatrix()
		for _, v := range raw.Data {
			sq = append(sq, v*v)
		}
	}
	return math.Sqrt(stat.Mean(sq, nil))
}

// Extrapolate solves the Pulay equations and returns the combined Fock
// pair. With fewer than two stored pairs the latest Fock is returned
// unchanged.
func (d *DIIS) Extrapolate() ([2]*mat.Dense, error) {
	n := len(d.focks)
	if n < 2 {
		return d.focks[n-1], nil
	}
	b := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := 0.0
			for s := 0; s < 2; s++ {
				v += mat.Dot(matVec(d.errs[i][s]), matVec(d.errs[j][s]))
			}
			b.Set(i, j, v)
			b.Set(j, i, v)
		}
		b.Set(i, n, -1)
		b.Set(n, i, -1)
	}
	rhs := mat.NewVecDense(n+1, nil)
	rhs.SetVec(n, -1)

	var lu mat.LU
	lu.Factorize(b)
	var c mat.VecDense
	if err := lu.SolveVecTo(&c, false, rhs); err != nil {
		return [2]*mat.Dense{}, fmt.Errorf("diis extrapolation: %w", err)
	}

	var out [2]*mat.Dense
	for s := 0; s < 2; s++ {
		rows, cols := d.focks[0][s].Dims()
		f := mat.NewDense(rows, cols, nil)
		for i := 0; i < n; i++ {
			var scaled mat.Dense
			scaled.Scale(c.AtVec(i), d.focks[i][s])
			f.Add(f, &scaled)
		}
		out[s] = f
	}
	return out, nil
}

func matVec(m *mat.Dense) *mat.VecDense {
	raw := m.RawMatrix()
	return mat.NewVecDense(len(raw.Data), raw.Data)
}
