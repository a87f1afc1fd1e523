// occ_test.go --  This file is part of goSCF project.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
)

func symMol() *chem.Molecule {
	return &chem.Molecule{
		GroupName: "Dooh",
		Irreps: []chem.Irrep{
			{ID: 0, Name: "A1g"},
			{ID: 5, Name: "A1u"},
		},
		SymmOrb: []*mat.Dense{
			mat.NewDense(2, 1, []float64{1, 1}),
			mat.NewDense(2, 1, []float64{1, -1}),
		},
	}
}

func moSet(energy [2][]float64, orbsym [2][]int) MOSet {
	var mos MOSet
	for s := 0; s < 2; s++ {
		n := len(energy[s])
		mos.Energy[s] = energy[s]
		mos.Coeff[s] = mat.NewDense(n, n, nil)
		mos.OrbSym[s] = orbsym[s]
	}
	return mos
}

func TestResolveOccupationAufbau(t *testing.T) {
	e := []float64{0.3, -0.5, 0.1}
	mos := moSet([2][]float64{e, e}, [2][]int{})
	occ, err := ResolveOccupation(nil, mos, nil, [2]int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1}, occ[0])
	assert.Equal(t, []float64{0, 1, 0}, occ[1])
}

func TestResolveOccupationStableTies(t *testing.T) {
	// Energies differing below the rounding threshold count as equal;
	// the earlier column wins.
	e := []float64{0.1 + 4e-12, 0.1, -1.0}
	mos := moSet([2][]float64{e, e}, [2][]int{})
	occ, err := ResolveOccupation(nil, mos, nil, [2]int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, occ[0])
}

func TestResolveOccupationFixedIrrep(t *testing.T) {
	mol := symMol()
	e := []float64{-0.6, 0.4}
	sym := []int{0, 5}
	mos := moSet([2][]float64{e, e}, [2][]int{sym, sym})
	occ, err := ResolveOccupation(mol, mos,
		map[string]IrrepNelec{"A1u": {Alpha: 1, Beta: 1}}, [2]int{1, 1})
	require.NoError(t, err)
	// Both electrons pinned into the antibonding irrep.
	assert.Equal(t, []float64{0, 1}, occ[0])
	assert.Equal(t, []float64{0, 1}, occ[1])
}

func TestResolveOccupationFloatingFill(t *testing.T) {
	mol := symMol()
	e := []float64{-0.6, 0.4}
	sym := []int{0, 5}
	mos := moSet([2][]float64{e, e}, [2][]int{sym, sym})
	occ, err := ResolveOccupation(mol, mos, nil, [2]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, occ[0])
	assert.Equal(t, []float64{1, 0}, occ[1])
}

func TestResolveOccupationOverRequest(t *testing.T) {
	mol := symMol()
	e := []float64{-0.6, 0.4}
	sym := []int{0, 5}
	mos := moSet([2][]float64{e, e}, [2][]int{sym, sym})
	_, err := ResolveOccupation(mol, mos,
		map[string]IrrepNelec{"A1g": {Alpha: 2, Beta: 1}}, [2]int{2, 1})
	require.Error(t, err)
	var ie *InvalidInputError
	assert.ErrorAs(t, err, &ie)
	assert.Contains(t, err.Error(), "A1g")
}

func TestResolveOccupationMapWithoutLabels(t *testing.T) {
	e := []float64{-0.6, 0.4}
	mos := moSet([2][]float64{e, e}, [2][]int{})
	_, err := ResolveOccupation(nil, mos,
		map[string]IrrepNelec{"A1g": {Alpha: 1}}, [2]int{1, 1})
	var ie *InvalidInputError
	assert.ErrorAs(t, err, &ie)
}

func TestResolveOccupationTooManyElectrons(t *testing.T) {
	e := []float64{-0.6}
	mos := moSet([2][]float64{e, e}, [2][]int{})
	_, err := ResolveOccupation(nil, mos, nil, [2]int{2, 0})
	var ie *InvalidInputError
	assert.ErrorAs(t, err, &ie)
}

func TestSplitNelec(t *testing.T) {
	assert.Equal(t, IrrepNelec{Alpha: 2, Beta: 1}, SplitNelec(3))
	assert.Equal(t, IrrepNelec{Alpha: 1, Beta: 1}, SplitNelec(2))
}

func TestRound9(t *testing.T) {
	assert.Equal(t, round9(0.1+4e-12), round9(0.1))
	assert.NotEqual(t, round9(0.1+2e-9), round9(0.1))
}
