// uhf_test.go --  This file is part of goSCF project.
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
package grad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/goscf/chem"
	"example.com/goscf/integral"
	"example.com/goscf/scf"
)

func runSCF(t *testing.T, symbols []string, coords [][3]float64, charge, spin int) (*chem.Molecule, *scf.Result) {
	t.Helper()
	mol, err := chem.NewMolecule(symbols, coords, "sto-3g", charge, spin)
	require.NoError(t, err)
	mf := scf.NewUHF(mol, integral.NewNative())
	res, err := mf.Kernel()
	require.NoError(t, err)
	require.True(t, res.Converged)
	return mol, res
}

// totalEnergyAt reruns the SCF with atom 0 displaced along z.
func totalEnergyAt(t *testing.T, symbols []string, z0 float64, coords [][3]float64, charge, spin int) float64 {
	t.Helper()
	shifted := make([][3]float64, len(coords))
	copy(shifted, coords)
	shifted[0][2] += z0
	_, res := runSCF(t, symbols, shifted, charge, spin)
	return res.Etot
}

func TestGradNucDiatomic(t *testing.T) {
	mol, res := runSCF(t, []string{"H", "H"},
		[][3]float64{{0, 0, 0}, {0, 0, 1.4}}, 0, 0)
	g := NewUHF(mol, integral.NewNative(), res)
	dn, err := g.GradNuc(nil)
	require.NoError(t, err)
	// dE_nn/dz0 of Z1 Z2 / R at R = 1.4, atom 0 on the low-z side.
	want := 1.0 / (1.4 * 1.4)
	assert.InDelta(t, want, dn.At(0, 2), 1e-12)
	assert.InDelta(t, -want, dn.At(1, 2), 1e-12)
	assert.InDelta(t, 0.0, dn.At(0, 0), 1e-12)
}

func TestKernelAgainstFiniteDifferenceH2(t *testing.T) {
	symbols := []string{"H", "H"}
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	mol, res := runSCF(t, symbols, coords, 0, 0)

	de, err := Kernel(NewUHF(mol, integral.NewNative(), res))
	require.NoError(t, err)

	const h = 1e-3
	ep := totalEnergyAt(t, symbols, h, coords, 0, 0)
	em := totalEnergyAt(t, symbols, -h, coords, 0, 0)
	fd := (ep - em) / (2 * h)
	assert.InDelta(t, fd, de.At(0, 2), 1e-4)

	// Off-axis components vanish and the forces balance.
	assert.InDelta(t, 0.0, de.At(0, 0), 1e-8)
	assert.InDelta(t, -de.At(0, 2), de.At(1, 2), 1e-6)
}

func TestKernelAgainstFiniteDifferenceTriplet(t *testing.T) {
	symbols := []string{"H", "H"}
	coords := [][3]float64{{0, 0, 0}, {0, 0, 2.0}}
	mol, res := runSCF(t, symbols, coords, 0, 2)

	de, err := Kernel(NewUHF(mol, integral.NewNative(), res))
	require.NoError(t, err)

	const h = 1e-3
	ep := totalEnergyAt(t, symbols, h, coords, 0, 2)
	em := totalEnergyAt(t, symbols, -h, coords, 0, 2)
	fd := (ep - em) / (2 * h)
	assert.InDelta(t, fd, de.At(0, 2), 1e-4)
}

func TestKernelAgainstFiniteDifferenceHeHCation(t *testing.T) {
	symbols := []string{"He", "H"}
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.5}}
	mol, res := runSCF(t, symbols, coords, 1, 0)

	de, err := Kernel(NewUHF(mol, integral.NewNative(), res))
	require.NoError(t, err)

	const h = 1e-3
	ep := totalEnergyAt(t, symbols, h, coords, 1, 0)
	em := totalEnergyAt(t, symbols, -h, coords, 1, 0)
	fd := (ep - em) / (2 * h)
	assert.InDelta(t, fd, de.At(0, 2), 1e-4)
}

func TestAtmLstRestrictsNuclearTerm(t *testing.T) {
	mol, res := runSCF(t, []string{"H", "H"},
		[][3]float64{{0, 0, 0}, {0, 0, 1.4}}, 0, 0)
	g := NewUHF(mol, integral.NewNative(), res)
	dn, err := g.GradNuc([]int{1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, dn.At(0, 2))
	assert.NotEqual(t, 0.0, dn.At(1, 2))
}
