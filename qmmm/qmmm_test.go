// qmmm_test.go --  This file is part of goSCF project.
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
package qmmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/grad"
	"example.com/goscf/integral"
	"example.com/goscf/scf"
)

func h2Mol(t *testing.T, coords [][3]float64) *chem.Molecule {
	t.Helper()
	mol, err := chem.NewMolecule([]string{"H", "H"}, coords, "sto-3g", 0, 0)
	require.NoError(t, err)
	return mol
}

func TestNewPointChargesValidation(t *testing.T) {
	_, err := NewPointCharges([][3]float64{{0, 0, 0}}, []float64{1, 2})
	var ie *scf.InvalidInputError
	require.ErrorAs(t, err, &ie)

	_, err = NewPointCharges(nil, nil)
	require.ErrorAs(t, err, &ie)
}

func TestChargePotentialMatchesGhostNucleus(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	qpos := [3]float64{0.5, 0.6, 0.8}
	prov := integral.NewNative()

	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)
	pc, err := NewPointCharges([][3]float64{qpos}, []float64{1.0})
	require.NoError(t, err)
	field := Charges(mf, prov, pc)

	h0, err := mf.GetHcore(mol)
	require.NoError(t, err)
	h1, err := field.GetHcore(mol)
	require.NoError(t, err)

	// A bare nucleus of charge one at the same spot: the sharp-Gaussian
	// potential must reproduce minus its attraction integrals.
	ghost := h2Mol(t, coords)
	ghost.Atoms = append(ghost.Atoms, chem.Atom{Z: 1, Name: "q1", Coords: qpos})
	vg, err := prov.NuclearAttraction(ghost)
	require.NoError(t, err)
	vp, err := prov.NuclearAttraction(mol)
	require.NoError(t, err)

	n := mol.NAO()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := -(vg.At(i, j) - vp.At(i, j))
			assert.InDelta(t, want, h1.At(i, j)-h0.At(i, j), 1e-4)
		}
	}
}

func TestEmbeddingShiftsEnergy(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	prov := integral.NewNative()

	plain := scf.NewUHF(h2Mol(t, coords), prov)
	rp, err := plain.Kernel()
	require.NoError(t, err)

	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)
	pc, err := NewPointCharges([][3]float64{{0.5, 0.6, 0.8}}, []float64{-0.5})
	require.NoError(t, err)
	field := Charges(mf, prov, pc)
	re, err := scf.Kernel(field)
	require.NoError(t, err)
	require.True(t, re.Converged)

	assert.Greater(t, math.Abs(rp.Etot-re.Etot), 1e-4)
	// The embedding enters the electronic hamiltonian only; the
	// internuclear energy stays classical and unmodified.
	assert.Equal(t, mol.EnergyNuc(), field.EnergyNuc())
}

func TestDoubleWrapReplacesCharges(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	prov := integral.NewNative()
	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)

	pc1, err := NewPointCharges([][3]float64{{1, 0, 0}}, []float64{0.3})
	require.NoError(t, err)
	pc2, err := NewPointCharges([][3]float64{{0, 1, 0}}, []float64{-0.2})
	require.NoError(t, err)

	direct := Charges(scf.NewUHF(h2Mol(t, coords), prov), prov, pc2)
	rewrapped := Charges(Charges(mf, prov, pc1), prov, pc2)

	hd, err := direct.GetHcore(mol)
	require.NoError(t, err)
	hr, err := rewrapped.GetHcore(mol)
	require.NoError(t, err)
	n := mol.NAO()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, hd.At(i, j), hr.At(i, j), 1e-12)
		}
	}
}

// embeddedEnergyAt reruns the embedded SCF with atom 0 displaced along
// z and returns the energy the gradient differentiates: the SCF total
// plus the classical nucleus-charge term.
func embeddedEnergyAt(t *testing.T, z0 float64, pc *PointCharges) float64 {
	t.Helper()
	coords := [][3]float64{{0, 0, z0}, {0, 0, 1.4}}
	prov := integral.NewNative()
	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)
	res, err := scf.Kernel(Charges(mf, prov, pc))
	require.NoError(t, err)
	require.True(t, res.Converged)
	return res.Etot + pc.EnergyNucCharges(mol)
}

func TestEmbeddedGradientAgainstFD(t *testing.T) {
	prov := integral.NewNative()
	pc, err := NewPointCharges([][3]float64{{0.5, 0.6, 0.8}}, []float64{-0.5})
	require.NoError(t, err)

	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)
	res, err := scf.Kernel(Charges(mf, prov, pc))
	require.NoError(t, err)
	require.True(t, res.Converged)

	gm := grad.NewUHF(mol, prov, res)
	de, err := grad.Kernel(ChargesGrad(gm, prov, pc))
	require.NoError(t, err)

	const h = 1e-3
	fd := (embeddedEnergyAt(t, h, pc) - embeddedEnergyAt(t, -h, pc)) / (2 * h)
	assert.InDelta(t, fd, de.At(0, 2), 1e-4)
}

func TestClassicalNucleusChargeForce(t *testing.T) {
	// A lone nucleus against a distant charge: the embedding force on
	// the nucleus is the bare Coulomb value q*Z/d^2.
	prov := integral.NewNative()
	mol, err := chem.NewMolecule([]string{"H"}, [][3]float64{{0, 0, 0}}, "sto-3g", 0, 1)
	require.NoError(t, err)
	mf := scf.NewUHF(mol, prov)
	const q, d = 0.8, 10.0
	pc, err := NewPointCharges([][3]float64{{0, 0, d}}, []float64{q})
	require.NoError(t, err)
	res, err := scf.Kernel(Charges(mf, prov, pc))
	require.NoError(t, err)

	gm := ChargesGrad(grad.NewUHF(mol, prov, res), prov, pc)
	dn, err := gm.GradNuc(nil)
	require.NoError(t, err)
	want := q * 1.0 / (d * d)
	assert.InEpsilon(t, want, dn.At(0, 2), 1e-9)
}

func TestEnergyNucCharges(t *testing.T) {
	mol := h2Mol(t, [][3]float64{{0, 0, 0}, {0, 0, 1.4}})
	pc, err := NewPointCharges([][3]float64{{0, 0, 3.4}}, []float64{2.0})
	require.NoError(t, err)
	// 1*2/3.4 + 1*2/2.0
	assert.InDelta(t, 2.0/3.4+1.0, pc.EnergyNucCharges(mol), 1e-12)
}

func TestChargedGradHcoreDerivShape(t *testing.T) {
	prov := integral.NewNative()
	coords := [][3]float64{{0, 0, 0}, {0, 0, 1.4}}
	mol := h2Mol(t, coords)
	mf := scf.NewUHF(mol, prov)
	pc, err := NewPointCharges([][3]float64{{0.5, 0.6, 0.8}}, []float64{-0.5})
	require.NoError(t, err)
	res, err := scf.Kernel(Charges(mf, prov, pc))
	require.NoError(t, err)

	gm := ChargesGrad(grad.NewUHF(mol, prov, res), prov, pc)
	hx, err := gm.HcoreDeriv()
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		r, c := hx[x].Dims()
		assert.Equal(t, mol.NAO(), r)
		assert.Equal(t, mol.NAO(), c)
	}
	base, err := grad.NewUHF(mol, prov, res).HcoreDeriv()
	require.NoError(t, err)
	// The charge term must actually contribute.
	diff := 0.0
	for x := 0; x < 3; x++ {
		var d mat.Dense
		d.Sub(hx[x], base[x])
		diff += mat.Norm(&d, 2)
	}
	assert.Greater(t, diff, 1e-6)
}
