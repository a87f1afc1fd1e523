// canon.go --  This file is part of goSCF project.
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

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/symm"
)

// Canonicalize diagonalizes the Fock matrix within the occupied and
// virtual subspaces of each spin channel, per irrep when orbital labels
// are available. Occupied/virtual mixing is never introduced, so the
// density matrix is left unchanged; already-canonical orbitals come
// back with at most a sign flip.
func Canonicalize(mol *chem.Molecule, fock [2]*mat.Dense, mos MOSet, occ [2][]float64, s *mat.SymDense) (MOSet, error) {
	out := MOSet{}
	work := mos
	if !mos.HasSym() && mol.HasSymmetry() {
		// Recover labels by projecting each column onto its dominant
		// irrep before block-diagonalizing.
		for sp := 0; sp < 2; sp++ {
			c, labels, err := symm.ProjectColumns(mol, mos.Coeff[sp], s)
			if err != nil {
				return out, fmt.Errorf("orbital projection: %w", err)
			}
			work.Coeff[sp] = c
			work.OrbSym[sp] = labels
		}
	}
	for sp := 0; sp < 2; sp++ {
		e, c, err := canonSpin(fock[sp], work.Coeff[sp], work.orbSymOrNil(sp), occ[sp])
		if err != nil {
			return out, err
		}
		out.Energy[sp] = e
		out.Coeff[sp] = c
		if work.HasSym() {
			out.OrbSym[sp] = work.OrbSym[sp]
		}
	}
	return out, nil
}

func (m *MOSet) orbSymOrNil(sp int) []int {
	if m.HasSym() {
		return m.OrbSym[sp]
	}
	return nil
}

// canonSpin rotates one spin channel subspace by subspace. Subspaces
// are the (irrep, occupied/virtual) groups; without labels only the
// occupied/virtual split applies.
func canonSpin(f *mat.Dense, c *mat.Dense, orbsym []int, occ []float64) ([]float64, *mat.Dense, error) {
	nao, nmo := c.Dims()
	energy := make([]float64, nmo)
	out := mat.NewDense(nao, nmo, nil)

	groups := map[[2]int][]int{}
	var order [][2]int
	for j := 0; j < nmo; j++ {
		key := [2]int{0, 0}
		if orbsym != nil {
			key[0] = orbsym[j]
		}
		if occ[j] > 0 {
			key[1] = 1
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], j)
	}

	for _, key := range order {
		idx := groups[key]
		n := len(idx)
		sub := mat.NewDense(nao, n, nil)
		for k, j := range idx {
			for i := 0; i < nao; i++ {
				sub.Set(i, k, c.At(i, j))
			}
		}
		var fc, fsub mat.Dense
		fc.Mul(f, sub)
		fsub.Mul(sub.T(), &fc)
		small := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				small.SetSym(i, j, 0.5*(fsub.At(i, j)+fsub.At(j, i)))
			}
		}
		var eig mat.EigenSym
		if !eig.Factorize(small, true) {
			return nil, nil, fmt.Errorf("subspace fock diagonalization failed")
		}
		var v mat.Dense
		eig.VectorsTo(&v)
		vals := eig.Values(nil)
		var rot mat.Dense
		rot.Mul(sub, &v)
		for k, j := range idx {
			energy[j] = vals[k]
			for i := 0; i < nao; i++ {
				out.Set(i, j, rot.At(i, k))
			}
		}
	}
	return energy, out, nil
}
