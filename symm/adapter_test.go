// adapter_test.go --  This file is part of goSCF project.
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
package symm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/integral"
	"example.com/goscf/linalg"
)

func symH2(t *testing.T) *chem.Molecule {
	t.Helper()
	mol, err := chem.NewMolecule(
		[]string{"H", "H"},
		[][3]float64{{0, 0, 0}, {0, 0, 1.4}},
		"sto-3g", 0, 0)
	require.NoError(t, err)
	require.NoError(t, mol.ApplyHomonuclearSymmetry())
	return mol
}

func TestSymmetrizeMatrixBlocksOut(t *testing.T) {
	mol := symH2(t)
	s, err := integral.NewNative().Overlap(mol)
	require.NoError(t, err)
	blocks := SymmetrizeMatrix(s, mol.SymmOrb)
	require.Len(t, blocks, 2)
	// Gerade block overlaps more than one, ungerade less.
	assert.Greater(t, blocks[0].At(0, 0), 1.0)
	assert.Less(t, blocks[1].At(0, 0), 1.0)
	assert.Greater(t, blocks[1].At(0, 0), 0.0)
}

func TestEigBlocksMatchesDirectSolve(t *testing.T) {
	mol := symH2(t)
	prov := integral.NewNative()
	h, err := prov.CoreHamiltonian(mol)
	require.NoError(t, err)
	s, err := prov.Overlap(mol)
	require.NoError(t, err)

	hd := mat.NewDense(2, 2, nil)
	hd.Copy(h)
	e, c, sym, err := EigBlocks(hd, s, mol)
	require.NoError(t, err)
	require.Len(t, e, 2)
	require.Len(t, sym, 2)
	assert.Equal(t, 0, sym[0])
	assert.Equal(t, 5, sym[1])

	x, err := linalg.MatrixSqrtInverse(s)
	require.NoError(t, err)
	eRef, _, err := linalg.EigGenSym(hd, x)
	require.NoError(t, err)
	// Same spectrum, modulo the per-irrep grouping.
	assert.InDelta(t, eRef[0], e[0], 1e-10)
	assert.InDelta(t, eRef[1], e[1], 1e-10)

	// Columns solve the generalized problem in the AO basis.
	for k := 0; k < 2; k++ {
		for i := 0; i < 2; i++ {
			fc := hd.At(i, 0)*c.At(0, k) + hd.At(i, 1)*c.At(1, k)
			sc := s.At(i, 0)*c.At(0, k) + s.At(i, 1)*c.At(1, k)
			assert.InDelta(t, e[k]*sc, fc, 1e-10)
		}
	}
}

func TestLabelOrbitals(t *testing.T) {
	mol := symH2(t)
	s, err := integral.NewNative().Overlap(mol)
	require.NoError(t, err)
	// Bonding and antibonding combinations, unnormalized on purpose.
	c := mat.NewDense(2, 2, []float64{
		1, 1,
		1, -1,
	})
	labels, err := LabelOrbitals(mol, c, s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5}, labels)
}

func TestProjectColumnsCleansLeakage(t *testing.T) {
	mol := symH2(t)
	s, err := integral.NewNative().Overlap(mol)
	require.NoError(t, err)
	// A slightly contaminated bonding orbital.
	c := mat.NewDense(2, 1, []float64{1.0, 0.98})
	out, labels, err := ProjectColumns(mol, c, s)
	require.NoError(t, err)
	require.Equal(t, []int{0}, labels)
	// After projection the two AO coefficients are exactly equal and the
	// column is S-normalized.
	assert.InDelta(t, out.At(0, 0), out.At(1, 0), 1e-12)
	norm := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			norm += out.At(i, 0) * s.At(i, j) * out.At(j, 0)
		}
	}
	assert.InDelta(t, 1.0, norm, 1e-10)
}
