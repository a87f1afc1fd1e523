// uhf.go --  This file is part of goSCF project.
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

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/integral"
	"example.com/goscf/linalg"
	"example.com/goscf/symm"
)

// UHF is the unrestricted Hartree-Fock mean field, symmetry-adapted
// when the molecule carries point-group metadata.
type UHF struct {
	mol  *chem.Molecule
	prov integral.Provider

	// IrrepNelec pins the (alpha, beta) electron count of individual
	// irreps; irreps not listed are filled by energy order.
	IrrepNelec map[string]IrrepNelec

	Settings Settings
	Log      logr.Logger
	Chk      CheckpointStore

	twoE *integral.TwoElectronList
}

func NewUHF(mol *chem.Molecule, prov integral.Provider) *UHF {
	return &UHF{
		mol:        mol,
		prov:       prov,
		IrrepNelec: map[string]IrrepNelec{},
		Settings:   DefaultSettings(),
		Log:        logr.Discard(),
	}
}

// SetIrrepNelecTotal pins a total electron count for one irrep, split
// between the spin channels with beta rounded down.
func (u *UHF) SetIrrepNelecTotal(name string, total int) {
	u.IrrepNelec[name] = SplitNelec(total)
}

func (u *UHF) Mol() *chem.Molecule { return u.mol }

func (u *UHF) Nelec() (int, int) { return u.mol.NelecSpin() }

func (u *UHF) Conv() Settings { return u.Settings }

func (u *UHF) Logger() logr.Logger { return u.Log }

func (u *UHF) Checkpoint() CheckpointStore { return u.Chk }

func (u *UHF) EnergyNuc() float64 { return u.mol.EnergyNuc() }

// Validate rejects over-constrained irrep electron maps before any
// integral or Fock work starts.
func (u *UHF) Validate() error {
	if len(u.IrrepNelec) == 0 {
		return nil
	}
	if !u.mol.HasSymmetry() {
		return invalidInputf("irrep electron map supplied but molecule has no symmetry")
	}
	na, nb := u.Nelec()
	fixA, fixB := 0, 0
	for name, n := range u.IrrepNelec {
		if _, ok := u.mol.IrrepByName(name); !ok {
			return invalidInputf("unknown irrep %q for group %s", name, u.mol.GroupName)
		}
		if n.Alpha < 0 || n.Beta < 0 {
			return invalidInputf("irrep %s: negative electron count", name)
		}
		fixA += n.Alpha
		fixB += n.Beta
	}
	if fixA > na || fixB > nb {
		return invalidInputf(
			"irrep electron map requests (%d, %d) electrons, system has (%d, %d)",
			fixA, fixB, na, nb)
	}
	return nil
}

func (u *UHF) GetHcore(mol *chem.Molecule) (*mat.SymDense, error) {
	return u.prov.CoreHamiltonian(mol)
}

func (u *UHF) GetOvlp(mol *chem.Molecule) (*mat.SymDense, error) {
	return u.prov.Overlap(mol)
}

// eriPerms enumerates the distinct index images of one unique integral
// under its 8-fold permutation symmetry.
func eriPerms(i, j, k, l int) [][4]int {
	cand := [8][4]int{
		{i, j, k, l}, {j, i, k, l}, {i, j, l, k}, {j, i, l, k},
		{k, l, i, j}, {l, k, i, j}, {k, l, j, i}, {l, k, j, i},
	}
	var res [][4]int
	for _, c := range cand {
		dup := false
		for _, r := range res {
			if r == c {
				dup = true
				break
			}
		}
		if !dup {
			res = append(res, c)
		}
	}
	return res
}

// GetVeff builds the UHF effective potential of each spin channel,
// J(total density) - K(spin density), from the unique-integral list.
func (u *UHF) GetVeff(mol *chem.Molecule, dm [2]*mat.Dense) ([2]*mat.Dense, error) {
	var res [2]*mat.Dense
	if u.twoE == nil {
		list, err := u.prov.TwoElectron(mol)
		if err != nil {
			return res, fmt.Errorf("two-electron integrals: %w", err)
		}
		u.twoE = list
	}
	nao := u.twoE.NAO
	p := mat.NewDense(nao, nao, nil)
	p.Add(dm[0], dm[1])
	j := mat.NewDense(nao, nao, nil)
	ka := mat.NewDense(nao, nao, nil)
	kb := mat.NewDense(nao, nao, nil)
	for n, idx := range u.twoE.Idx {
		v := u.twoE.Val[n]
		i0, j0, k0, l0 := u.twoE.Decode(idx)
		for _, pm := range eriPerms(i0, j0, k0, l0) {
			a, b, c, d := pm[0], pm[1], pm[2], pm[3]
			j.Set(a, b, j.At(a, b)+v*p.At(c, d))
			ka.Set(a, d, ka.At(a, d)+v*dm[0].At(b, c))
			kb.Set(a, d, kb.At(a, d)+v*dm[1].At(b, c))
		}
	}
	va := mat.NewDense(nao, nao, nil)
	va.Sub(j, ka)
	vb := mat.NewDense(nao, nao, nil)
	vb.Sub(j, kb)
	res[0], res[1] = va, vb
	return res, nil
}

// Eig diagonalizes the Fock pair: per irrep block through the symmetry
// adapter when symmetry is active, otherwise the direct generalized
// eigenproblem.
func (u *UHF) Eig(f [2]*mat.Dense, s *mat.SymDense) (MOSet, error) {
	var mos MOSet
	if u.mol.HasSymmetry() {
		for sp := 0; sp < 2; sp++ {
			e, c, sym, err := symm.EigBlocks(f[sp], s, u.mol)
			if err != nil {
				return mos, err
			}
			mos.Energy[sp] = e
			mos.Coeff[sp] = c
			mos.OrbSym[sp] = sym
		}
		return mos, nil
	}
	x, err := linalg.MatrixSqrtInverse(s)
	if err != nil {
		return mos, fmt.Errorf("overlap: %w", err)
	}
	for sp := 0; sp < 2; sp++ {
		e, c, err := linalg.EigGenSym(f[sp], x)
		if err != nil {
			return mos, err
		}
		mos.Energy[sp] = e
		mos.Coeff[sp] = c
	}
	return mos, nil
}

// GetOcc resolves the occupation vector and reports frontier-orbital
// diagnostics.
func (u *UHF) GetOcc(mos MOSet) ([2][]float64, error) {
	na, nb := u.Nelec()
	occ, err := ResolveOccupation(u.mol, mos, u.IrrepNelec, [2]int{na, nb})
	if err != nil {
		return occ, err
	}
	u.reportOcc(mos, occ)
	return occ, nil
}

func (u *UHF) reportOcc(mos MOSet, occ [2][]float64) {
	names := [2]string{"alpha", "beta "}
	for s := 0; s < 2; s++ {
		homo, lumo := frontier(mos.Energy[s], occ[s])
		if homo < 0 || lumo < 0 {
			continue
		}
		if mos.HasSym() {
			u.Log.V(1).Info("frontier orbitals",
				"spin", names[s],
				"homo", mos.Energy[s][homo], "homoIrrep", u.mol.IrrepName(mos.OrbSym[s][homo]),
				"lumo", mos.Energy[s][lumo], "lumoIrrep", u.mol.IrrepName(mos.OrbSym[s][lumo]))
		} else {
			u.Log.V(1).Info("frontier orbitals",
				"spin", names[s],
				"homo", mos.Energy[s][homo], "lumo", mos.Energy[s][lumo])
		}
	}
	if u.Log.V(2).Enabled() && hasVirtual(occ) {
		if s, err := u.GetOvlp(u.mol); err == nil {
			ss, mult := SpinSquare(mos, occ, s)
			u.Log.V(2).Info("spin expectation", "S2", ss, "multiplicity", mult)
		}
	}
}

// frontier picks the highest occupied and lowest unoccupied orbital of
// one spin channel; -1 when a side is absent.
func frontier(e []float64, occ []float64) (int, int) {
	homo, lumo := -1, -1
	for i := range e {
		if occ[i] > 0 {
			if homo < 0 || e[i] > e[homo] {
				homo = i
			}
		} else {
			if lumo < 0 || e[i] < e[lumo] {
				lumo = i
			}
		}
	}
	return homo, lumo
}

func hasVirtual(occ [2][]float64) bool {
	for s := 0; s < 2; s++ {
		for _, o := range occ[s] {
			if o == 0 {
				return true
			}
		}
	}
	return false
}

// Kernel runs the SCF iteration on this mean field.
func (u *UHF) Kernel() (*Result, error) { return Kernel(u) }
