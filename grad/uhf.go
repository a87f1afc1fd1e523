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

// Package grad evaluates analytic nuclear gradients of the converged
// UHF energy. Kernel dispatches the hcore-derivative and
// nuclear-repulsion steps through the Method interface so the
// point-charge embedding can override them.
package grad

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/integral"
	"example.com/goscf/scf"
)

// Method is the gradient capability interface. Decorators wrap a
// Method, override individual terms and delegate the rest; Base exposes
// the underlying engine for the shared assembly.
type Method interface {
	Mol() *chem.Molecule
	// HcoreDeriv returns <nabla_x mu|h|nu> per Cartesian component.
	HcoreDeriv() ([3]*mat.Dense, error)
	// GradNuc is the gradient of the classical nuclear energy, natm x 3.
	GradNuc(atmlst []int) (*mat.Dense, error)
	Base() *UHF
}

// UHF computes nuclear gradients for an unrestricted mean-field
// solution.
type UHF struct {
	mol  *chem.Molecule
	prov integral.Provider
	res  *scf.Result

	Log logr.Logger
	// AtmLst restricts the gradient to a subset of atoms; empty means
	// all atoms.
	AtmLst []int
}

func NewUHF(mol *chem.Molecule, prov integral.Provider, res *scf.Result) *UHF {
	return &UHF{mol: mol, prov: prov, res: res, Log: logr.Discard()}
}

func (g *UHF) Mol() *chem.Molecule { return g.mol }

func (g *UHF) Base() *UHF { return g }

func (g *UHF) Result() *scf.Result { return g.res }

func (g *UHF) Provider() integral.Provider { return g.prov }

// HcoreDeriv sums the kinetic and nuclear-attraction bra derivatives.
func (g *UHF) HcoreDeriv() ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	tk, err := g.prov.IPKinetic(g.mol)
	if err != nil {
		return res, fmt.Errorf("kinetic derivative: %w", err)
	}
	vn, err := g.prov.IPNuclear(g.mol)
	if err != nil {
		return res, fmt.Errorf("nuclear-attraction derivative: %w", err)
	}
	for x := 0; x < 3; x++ {
		r, c := tk[x].Dims()
		h := mat.NewDense(r, c, nil)
		h.Add(tk[x], vn[x])
		res[x] = h
	}
	return res, nil
}

// GradNuc is the derivative of the internuclear repulsion energy.
func (g *UHF) GradNuc(atmlst []int) (*mat.Dense, error) {
	mol := g.mol
	out := mat.NewDense(mol.NAtm(), 3, nil)
	for _, i := range resolveAtmLst(mol, atmlst) {
		zi := mol.AtomCharge(i)
		ri := mol.AtomCoord(i)
		for j := 0; j < mol.NAtm(); j++ {
			if j == i {
				continue
			}
			rj := mol.AtomCoord(j)
			d2 := 0.0
			for x := 0; x < 3; x++ {
				d := ri[x] - rj[x]
				d2 += d * d
			}
			d3 := d2 * math.Sqrt(d2)
			zz := zi * mol.AtomCharge(j)
			for x := 0; x < 3; x++ {
				out.Set(i, x, out.At(i, x)-zz*(ri[x]-rj[x])/d3)
			}
		}
	}
	return out, nil
}

func resolveAtmLst(mol *chem.Molecule, atmlst []int) []int {
	if len(atmlst) > 0 {
		return atmlst
	}
	all := make([]int, mol.NAtm())
	for i := range all {
		all[i] = i
	}
	return all
}

// Kernel assembles the total nuclear gradient, natm x 3.
func Kernel(m Method) (*mat.Dense, error) {
	g := m.Base()
	de, err := gradElec(m)
	if err != nil {
		return nil, err
	}
	dnuc, err := m.GradNuc(g.AtmLst)
	if err != nil {
		return nil, err
	}
	de.Add(de, dnuc)
	g.Log.V(1).Info("nuclear gradient assembled", "natm", g.mol.NAtm())
	return de, nil
}

// gradElec is the electronic part: the one-electron derivative terms
// contracted with the density, the overlap derivative contracted with
// the energy-weighted density, and the two-electron term.
func gradElec(m Method) (*mat.Dense, error) {
	g := m.Base()
	mol := g.mol
	nao := mol.NAO()

	dm := g.res.MakeRDM1()
	p := mat.NewDense(nao, nao, nil)
	p.Add(dm[0], dm[1])
	w := energyWeightedDM(g.res)

	hx, err := m.HcoreDeriv()
	if err != nil {
		return nil, err
	}
	sx, err := g.prov.IPOverlap(mol)
	if err != nil {
		return nil, fmt.Errorf("overlap derivative: %w", err)
	}
	de, err := g.prov.TwoElectronGrad(mol, p, dm[0], dm[1])
	if err != nil {
		return nil, fmt.Errorf("two-electron gradient: %w", err)
	}

	slices := mol.AOSlices()
	for _, at := range resolveAtmLst(mol, g.AtmLst) {
		p0, p1 := slices[at][0], slices[at][1]
		vop, err := g.prov.NuclearAttractionOperatorDeriv(mol, at)
		if err != nil {
			return nil, fmt.Errorf("operator derivative: %w", err)
		}
		for x := 0; x < 3; x++ {
			v := de.At(at, x)
			for mu := p0; mu < p1; mu++ {
				for nu := 0; nu < nao; nu++ {
					// Basis-center derivative of hcore and overlap;
					// the factor 2 covers the symmetric ket term.
					v -= 2.0 * hx[x].At(mu, nu) * p.At(mu, nu)
					v += 2.0 * sx[x].At(mu, nu) * w.At(mu, nu)
				}
			}
			for mu := 0; mu < nao; mu++ {
				for nu := 0; nu < nao; nu++ {
					v += vop[x].At(mu, nu) * p.At(mu, nu)
				}
			}
			de.Set(at, x, v)
		}
	}
	return de, nil
}

// energyWeightedDM builds W = sum_s sum_{i occ} e_i C_i C_i^T.
func energyWeightedDM(res *scf.Result) *mat.Dense {
	nao, _ := res.MO.Coeff[0].Dims()
	w := mat.NewDense(nao, nao, nil)
	for s := 0; s < 2; s++ {
		_, nmo := res.MO.Coeff[s].Dims()
		for m := 0; m < nmo; m++ {
			if res.Occ[s][m] == 0 {
				continue
			}
			e := res.MO.Energy[s][m] * res.Occ[s][m]
			for i := 0; i < nao; i++ {
				ci := res.MO.Coeff[s].At(i, m)
				if ci == 0 {
					continue
				}
				for j := 0; j < nao; j++ {
					w.Set(i, j, w.At(i, j)+e*ci*res.MO.Coeff[s].At(j, m))
				}
			}
		}
	}
	return w
}
