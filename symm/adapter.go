// adapter.go --  This file is part of goSCF project.
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

// Package symm maps AO-basis matrices onto the symmetry-adapted basis,
// solves the per-irrep eigenproblems and labels molecular orbitals with
// irrep identifiers.
package symm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/linalg"
)

// SymmetrizeMatrix transforms an AO matrix into its per-irrep blocks
// X_ir^T M X_ir.
func SymmetrizeMatrix(m mat.Matrix, blocks []*mat.Dense) []*mat.SymDense {
	res := make([]*mat.SymDense, len(blocks))
	for ir, x := range blocks {
		_, nso := x.Dims()
		var t, b mat.Dense
		t.Mul(m, x)
		b.Mul(x.T(), &t)
		sym := mat.NewSymDense(nso, nil)
		for i := 0; i < nso; i++ {
			for j := 0; j <= i; j++ {
				sym.SetSym(i, j, 0.5*(b.At(i, j)+b.At(j, i)))
			}
		}
		res[ir] = sym
	}
	return res
}

// SO2AOCoeff stacks per-irrep eigenvector blocks back into a full AO
// coefficient matrix, irrep by irrep.
func SO2AOCoeff(blocks []*mat.Dense, cs []*mat.Dense) *mat.Dense {
	nao, _ := blocks[0].Dims()
	ncol := 0
	for _, c := range cs {
		_, n := c.Dims()
		ncol += n
	}
	res := mat.NewDense(nao, ncol, nil)
	p := 0
	for ir, c := range cs {
		var ao mat.Dense
		ao.Mul(blocks[ir], c)
		_, n := c.Dims()
		for j := 0; j < n; j++ {
			for i := 0; i < nao; i++ {
				res.Set(i, p+j, ao.At(i, j))
			}
		}
		p += n
	}
	return res
}

// EigBlocks solves F C = S C E irrep by irrep and stacks the results,
// grouped by irrep with matching labels. Energies are ascending within
// each irrep, not globally.
func EigBlocks(f mat.Matrix, s *mat.SymDense, mol *chem.Molecule) ([]float64, *mat.Dense, []int, error) {
	if !mol.HasSymmetry() {
		return nil, nil, nil, fmt.Errorf("molecule carries no symmetry blocks")
	}
	sBlocks := SymmetrizeMatrix(s, mol.SymmOrb)
	fBlocks := SymmetrizeMatrix(f, mol.SymmOrb)
	var energies []float64
	var orbsym []int
	cs := make([]*mat.Dense, len(mol.SymmOrb))
	for ir := range mol.SymmOrb {
		x, err := linalg.MatrixSqrtInverse(sBlocks[ir])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("irrep %s overlap: %w", mol.Irreps[ir].Name, err)
		}
		e, c, err := linalg.EigGenSym(fBlocks[ir], x)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("irrep %s: %w", mol.Irreps[ir].Name, err)
		}
		cs[ir] = c
		energies = append(energies, e...)
		for range e {
			orbsym = append(orbsym, mol.Irreps[ir].ID)
		}
	}
	return energies, SO2AOCoeff(mol.SymmOrb, cs), orbsym, nil
}

// NormalizeBlocks returns S-orthonormalized copies of the symmetry
// blocks (Loewdin within each block).
func NormalizeBlocks(s mat.Matrix, blocks []*mat.Dense) ([]*mat.Dense, error) {
	res := make([]*mat.Dense, len(blocks))
	for ir, x := range blocks {
		sb := SymmetrizeMatrix(s, []*mat.Dense{x})[0]
		inv, err := linalg.MatrixSqrtInverse(sb)
		if err != nil {
			return nil, fmt.Errorf("block %d not linearly independent: %w", ir, err)
		}
		var nx mat.Dense
		nx.Mul(x, inv)
		res[ir] = &nx
	}
	return res, nil
}

// LabelOrbitals assigns each MO column the irrep carrying most of its
// S-weighted norm.
func LabelOrbitals(mol *chem.Molecule, c mat.Matrix, s mat.Matrix) ([]int, error) {
	blocks, err := NormalizeBlocks(s, mol.SymmOrb)
	if err != nil {
		return nil, err
	}
	_, nmo := c.Dims()
	var sc mat.Dense
	sc.Mul(s, c)
	labels := make([]int, nmo)
	for j := 0; j < nmo; j++ {
		best, bestW := 0, -1.0
		for ir, x := range blocks {
			_, nso := x.Dims()
			w := 0.0
			for k := 0; k < nso; k++ {
				dot := 0.0
				for i := 0; i < mol.NAO(); i++ {
					dot += x.At(i, k) * sc.At(i, j)
				}
				w += dot * dot
			}
			if w > bestW {
				best, bestW = ir, w
			}
		}
		labels[j] = mol.Irreps[best].ID
	}
	return labels, nil
}

// ProjectColumns re-projects each MO column onto its dominant irrep
// subspace and renormalizes, removing symmetry leakage introduced by
// near-degenerate eigenvectors. Returns the projected columns and their
// irrep labels.
func ProjectColumns(mol *chem.Molecule, c *mat.Dense, s mat.Matrix) (*mat.Dense, []int, error) {
	blocks, err := NormalizeBlocks(s, mol.SymmOrb)
	if err != nil {
		return nil, nil, err
	}
	nao, nmo := c.Dims()
	var sc mat.Dense
	sc.Mul(s, c)
	out := mat.NewDense(nao, nmo, nil)
	labels := make([]int, nmo)
	for j := 0; j < nmo; j++ {
		best, bestW := -1, -1.0
		var bestProj []float64
		for ir, x := range blocks {
			_, nso := x.Dims()
			proj := make([]float64, nso)
			w := 0.0
			for k := 0; k < nso; k++ {
				dot := 0.0
				for i := 0; i < nao; i++ {
					dot += x.At(i, k) * sc.At(i, j)
				}
				proj[k] = dot
				w += dot * dot
			}
			if w > bestW {
				best, bestW = ir, w
				bestProj = proj
			}
		}
		if bestW <= 0 {
			return nil, nil, fmt.Errorf("column %d has no overlap with any irrep", j)
		}
		norm := 1.0 / math.Sqrt(bestW)
		x := blocks[best]
		_, nso := x.Dims()
		for i := 0; i < nao; i++ {
			v := 0.0
			for k := 0; k < nso; k++ {
				v += x.At(i, k) * bestProj[k]
			}
			out.Set(i, j, v*norm)
		}
		labels[j] = mol.Irreps[best].ID
	}
	return out, labels, nil
}
