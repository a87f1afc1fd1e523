// analyze.go --  This file is part of goSCF project.
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
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
)

// GetIrrepNelec counts the electrons occupying each irrep per spin
// channel. Orbitals must carry irrep labels.
func GetIrrepNelec(mol *chem.Molecule, mos MOSet, occ [2][]float64) (map[string]IrrepNelec, error) {
	if !mos.HasSym() {
		return nil, invalidInputf("orbitals carry no irrep labels")
	}
	res := map[string]IrrepNelec{}
	for _, ir := range mol.Irreps {
		cnt := IrrepNelec{}
		for s := 0; s < 2; s++ {
			n := 0
			for i, sym := range mos.OrbSym[s] {
				if sym == ir.ID && occ[s][i] > 0 {
					n++
				}
			}
			if s == 0 {
				cnt.Alpha = n
			} else {
				cnt.Beta = n
			}
		}
		res[ir.Name] = cnt
	}
	return res, nil
}

// SpinSquare evaluates <S^2> and the spin multiplicity 2S+1 of a UHF
// determinant from the occupied alpha/beta orbital overlap.
func SpinSquare(mos MOSet, occ [2][]float64, s *mat.SymDense) (float64, float64) {
	ca := occColumns(mos.Coeff[0], occ[0])
	cb := occColumns(mos.Coeff[1], occ[1])
	na := colCount(ca)
	nb := colCount(cb)
	ssz := float64(na-nb) * float64(na-nb) / 4.0
	ssxy := float64(na+nb) / 2.0
	if na > 0 && nb > 0 {
		var sc, ov mat.Dense
		sc.Mul(s, cb)
		ov.Mul(ca.T(), &sc)
		r, c := ov.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				v := ov.At(i, j)
				ssxy -= v * v
			}
		}
	}
	ss := ssxy + ssz
	mult := 2.0*(math.Sqrt(ss+0.25)-0.5) + 1.0
	return ss, mult
}

func occColumns(c *mat.Dense, occ []float64) *mat.Dense {
	nao, nmo := c.Dims()
	var idx []int
	for i := 0; i < nmo; i++ {
		if occ[i] > 0 {
			idx = append(idx, i)
		}
	}
	out := mat.NewDense(nao, max(len(idx), 1), nil)
	for k, j := range idx {
		for i := 0; i < nao; i++ {
			out.Set(i, k, c.At(i, j))
		}
	}
	return out
}

func colCount(c *mat.Dense) int {
	_, n := c.Dims()
	// A single zero column stands in for an empty selection.
	if n == 1 && mat.Norm(c, 2) == 0 {
		return 0
	}
	return n
}

// OrbitalGradient forms the occupied-virtual Fock block of each spin
// channel. Elements coupling different irreps vanish by symmetry and
// are zeroed explicitly so round-off does not pollute the diagnostic.
func OrbitalGradient(fock [2]*mat.Dense, mos MOSet, occ [2][]float64) [2]*mat.Dense {
	var res [2]*mat.Dense
	for s := 0; s < 2; s++ {
		var occIdx, virIdx []int
		for i := range occ[s] {
			if occ[s][i] > 0 {
				occIdx = append(occIdx, i)
			} else {
				virIdx = append(virIdx, i)
			}
		}
		g := mat.NewDense(max(len(occIdx), 1), max(len(virIdx), 1), nil)
		nao, _ := mos.Coeff[s].Dims()
		for a, i := range occIdx {
			for b, j := range virIdx {
				if mos.HasSym() && mos.OrbSym[s][i] != mos.OrbSym[s][j] {
					continue
				}
				v := 0.0
				for p := 0; p < nao; p++ {
					cp := mos.Coeff[s].At(p, i)
					if cp == 0 {
						continue
					}
					for q := 0; q < nao; q++ {
						v += cp * fock[s].At(p, q) * mos.Coeff[s].At(q, j)
					}
				}
				g.Set(a, b, v)
			}
		}
		res[s] = g
	}
	return res
}

// GradNorm is the Frobenius norm of the pooled orbital gradient.
func GradNorm(g [2]*mat.Dense) float64 {
	t := 0.0
	for s := 0; s < 2; s++ {
		n := mat.Norm(g[s], 2)
		t += n * n
	}
	return math.Sqrt(t)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
