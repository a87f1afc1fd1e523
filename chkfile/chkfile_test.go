// chkfile_test.go --  This file is part of goSCF project.
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
package chkfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/scf"
)

func sampleSolution(t *testing.T) (*chem.Molecule, scf.MOSet, [2][]float64) {
	t.Helper()
	mol, err := chem.NewMolecule(
		[]string{"H", "H"},
		[][3]float64{{0, 0, 0}, {0, 0, 1.4}},
		"sto-3g", 0, 0)
	require.NoError(t, err)
	require.NoError(t, mol.ApplyHomonuclearSymmetry())

	var mos scf.MOSet
	for s := 0; s < 2; s++ {
		mos.Energy[s] = []float64{-0.578, 0.670}
		mos.Coeff[s] = mat.NewDense(2, 2, []float64{
			0.548, 1.212,
			0.548, -1.212,
		})
		mos.OrbSym[s] = []int{0, 5}
	}
	occ := [2][]float64{{1, 0}, {1, 0}}
	return mol, mos, occ
}

func TestDumpAndLoad(t *testing.T) {
	mol, mos, occ := sampleSolution(t)
	path := filepath.Join(t.TempDir(), "scf.yaml")
	store := &Store{Path: path}
	require.NoError(t, store.DumpSCF(mol, -1.1167, mos, occ, true))

	chk, err := Load(path)
	require.NoError(t, err)
	assert.True(t, chk.Converged)
	assert.InDelta(t, -1.1167, chk.Etot, 1e-12)
	assert.Equal(t, "Dooh", chk.Group)
	assert.Equal(t, []int{1, 1}, chk.AtomZ)
	assert.Equal(t, []string{"A1g", "A1u"}, chk.Alpha.Irreps)
	assert.Equal(t, mos.Energy[0], chk.Alpha.Energy)
	assert.Equal(t, occ[1], chk.Beta.Occ)
	require.Len(t, chk.Alpha.Coeff, 2)
	assert.InDelta(t, 0.548, chk.Alpha.Coeff[0][0], 1e-12)
}

func TestDumpRefusesOverwrite(t *testing.T) {
	mol, mos, occ := sampleSolution(t)
	path := filepath.Join(t.TempDir(), "scf.yaml")
	store := &Store{Path: path}
	require.NoError(t, store.DumpSCF(mol, -1.0, mos, occ, true))
	assert.Error(t, store.DumpSCF(mol, -1.0, mos, occ, true))

	store.Overwrite = true
	assert.NoError(t, store.DumpSCF(mol, -2.0, mos, occ, false))
	chk, err := Load(path)
	require.NoError(t, err)
	assert.False(t, chk.Converged)
	assert.InDelta(t, -2.0, chk.Etot, 1e-12)
}
