// qmmm.go --  This file is part of goSCF project.
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

// Package qmmm embeds a set of external point charges into a QM
// calculation. Charges decorates a mean field so the charge potential
// enters the core hamiltonian; ChargesGrad decorates a gradient method
// with the matching derivative terms. The classical nuclear energy is
// left untouched; only the gradient picks up the nucleus-charge force.
package qmmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/grad"
	"example.com/goscf/integral"
	"example.com/goscf/linalg"
	"example.com/goscf/scf"
)

// PointCharges is the external charge distribution: one magnitude per
// coordinate, atomic units.
type PointCharges struct {
	Coords  [][3]float64
	Charges []float64
}

func NewPointCharges(coords [][3]float64, charges []float64) (*PointCharges, error) {
	if len(coords) != len(charges) {
		return nil, &scf.InvalidInputError{
			Msg: fmt.Sprintf("point charges: %d coordinates but %d charges",
				len(coords), len(charges)),
		}
	}
	if len(coords) == 0 {
		return nil, &scf.InvalidInputError{Msg: "point charges: empty charge set"}
	}
	return &PointCharges{Coords: coords, Charges: charges}, nil
}

// EnergyNucCharges is the classical interaction of the nuclei with the
// point charges. It is reported separately, never folded into the
// mean-field energy.
func (pc *PointCharges) EnergyNucCharges(mol *chem.Molecule) float64 {
	e := 0.0
	for i := 0; i < mol.NAtm(); i++ {
		z := mol.AtomCharge(i)
		r := mol.AtomCoord(i)
		for k, c := range pc.Coords {
			d2 := 0.0
			for x := 0; x < 3; x++ {
				d := r[x] - c[x]
				d2 += d * d
			}
			e += z * pc.Charges[k] / math.Sqrt(d2)
		}
	}
	return e
}

// chargedMF decorates a mean field with the point-charge potential in
// its core hamiltonian. All other operations delegate.
type chargedMF struct {
	scf.MeanField
	prov integral.Provider
	pc   *PointCharges

	vmm *mat.SymDense
}

// Charges wraps a mean field so GetHcore returns
// h0 + sum_k q_k (mu nu|k) over the sharp-Gaussian charge basis.
// Wrapping an already-charged mean field replaces the charge set.
func Charges(mf scf.MeanField, prov integral.Provider, pc *PointCharges) scf.MeanField {
	if prev, ok := mf.(*chargedMF); ok {
		mf = prev.MeanField
	}
	return &chargedMF{MeanField: mf, prov: prov, pc: pc}
}

func (c *chargedMF) GetHcore(mol *chem.Molecule) (*mat.SymDense, error) {
	h0, err := c.MeanField.GetHcore(mol)
	if err != nil {
		return nil, err
	}
	if c.vmm == nil {
		v, err := c.chargePotential(mol)
		if err != nil {
			return nil, err
		}
		c.vmm = v
	}
	n, _ := h0.Dims()
	h := mat.NewSymDense(n, nil)
	h.AddSym(h0, c.vmm)
	return h, nil
}

// chargePotential contracts the packed three-center tensor with the
// charge magnitudes and unpacks the result to a square matrix.
func (c *chargedMF) chargePotential(mol *chem.Molecule) (*mat.SymDense, error) {
	aux := integral.NewPointChargeBasis(c.pc.Coords)
	j3c, err := c.prov.ThreeCenterERI(mol, aux)
	if err != nil {
		return nil, fmt.Errorf("charge potential: %w", err)
	}
	nao := mol.NAO()
	packed := make([]float64, linalg.TrilSize(nao))
	for p := range packed {
		v := 0.0
		for k, q := range c.pc.Charges {
			v += q * j3c.At(p, k)
		}
		packed[p] = v
	}
	return linalg.UnpackTril(nao, packed)
}

// chargedGrad decorates a gradient method with the point-charge
// derivative terms.
type chargedGrad struct {
	grad.Method
	prov integral.Provider
	pc   *PointCharges
}

// ChargesGrad wraps a gradient method: the hcore derivative gains the
// charge-potential term and the nuclear gradient the classical
// nucleus-charge force.
func ChargesGrad(gm grad.Method, prov integral.Provider, pc *PointCharges) grad.Method {
	if prev, ok := gm.(*chargedGrad); ok {
		gm = prev.Method
	}
	return &chargedGrad{Method: gm, prov: prov, pc: pc}
}

func (g *chargedGrad) HcoreDeriv() ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	h0, err := g.Method.HcoreDeriv()
	if err != nil {
		return res, err
	}
	mol := g.Method.Mol()
	aux := integral.NewPointChargeBasis(g.pc.Coords)
	gv, err := g.prov.ThreeCenterERIGrad(mol, aux)
	if err != nil {
		return res, fmt.Errorf("charge potential derivative: %w", err)
	}
	nao := mol.NAO()
	for x := 0; x < 3; x++ {
		h := mat.NewDense(nao, nao, nil)
		h.Copy(h0[x])
		for k, q := range g.pc.Charges {
			var scaled mat.Dense
			scaled.Scale(q, gv[x][k])
			h.Add(h, &scaled)
		}
		res[x] = h
	}
	return res, nil
}

func (g *chargedGrad) GradNuc(atmlst []int) (*mat.Dense, error) {
	gq, err := g.Method.GradNuc(atmlst)
	if err != nil {
		return nil, err
	}
	mol := g.Method.Mol()
	for i := 0; i < mol.NAtm(); i++ {
		z := mol.AtomCharge(i)
		r := mol.AtomCoord(i)
		for k, c := range g.pc.Coords {
			d2 := 0.0
			for x := 0; x < 3; x++ {
				d := r[x] - c[x]
				d2 += d * d
			}
			d3 := d2 * math.Sqrt(d2)
			for x := 0; x < 3; x++ {
				gq.Set(i, x, gq.At(i, x)-z*g.pc.Charges[k]*(r[x]-c[x])/d3)
			}
		}
	}
	return gq, nil
}
