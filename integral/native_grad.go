// native_grad.go --  This file is part of goSCF project.
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
package integral

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
)

// Derivative integrals for s-type shells. The closed forms of native.go
// are differentiated with respect to the basis-function centers; the
// exported IP* kinds flip the sign to the <nabla_x mu|Op|nu> convention
// (derivative with respect to the electron coordinate on the bra).

func newComp3(nao int) [3]*mat.Dense {
	return [3]*mat.Dense{
		mat.NewDense(nao, nao, nil),
		mat.NewDense(nao, nao, nil),
		mat.NewDense(nao, nao, nil),
	}
}

func (n *Native) IPOverlap(mol *chem.Molecule) ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	aos, err := aoList(mol)
	if err != nil {
		return res, err
	}
	nao := len(aos)
	res = newComp3(nao)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				s := pp.pre * pp.k * math.Pow(math.Pi/pp.p, 1.5)
				for x := 0; x < 3; x++ {
					// <nabla mu|nu> = -dS/dA = 2 q (A-B) S
					res[x].Set(i, j, res[x].At(i, j)+2.0*pp.q*pp.ab[x]*s)
				}
			}
		}
	}
	return res, nil
}

func (n *Native) IPKinetic(mol *chem.Molecule) ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	aos, err := aoList(mol)
	if err != nil {
		return res, err
	}
	nao := len(aos)
	res = newComp3(nao)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				s := pp.pre * pp.k * math.Pow(math.Pi/pp.p, 1.5)
				tfac := kinFactor(&pp, aos[j].coord)
				for x := 0; x < 3; x++ {
					pb := pp.ctr[x] - aos[j].coord[x]
					dA := -2.0*pp.q*pp.ab[x]*s*tfac -
						s*4.0*pp.b*pp.b*(pp.a/pp.p)*pb
					res[x].Set(i, j, res[x].At(i, j)-dA)
				}
			}
		}
	}
	return res, nil
}

func (n *Native) IPNuclear(mol *chem.Molecule) ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	aos, err := aoList(mol)
	if err != nil {
		return res, err
	}
	nao := len(aos)
	res = newComp3(nao)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				for at := range mol.Atoms {
					c := mol.Atoms[at].Coords
					t := pp.p * dist2(pp.ctr, c)
					f0 := boys(t, 0)
					f1 := boys(t, 1)
					vpre := -float64(mol.Atoms[at].Z) * pp.pre * (2.0 * math.Pi / pp.p) * pp.k
					for x := 0; x < 3; x++ {
						pc := pp.ctr[x] - c[x]
						dA := vpre * (-2.0*pp.q*pp.ab[x]*f0 - 2.0*pp.a*pc*f1)
						res[x].Set(i, j, res[x].At(i, j)-dA)
					}
				}
			}
		}
	}
	return res, nil
}

func (n *Native) NuclearAttractionOperatorDeriv(mol *chem.Molecule, atm int) ([3]*mat.Dense, error) {
	var res [3]*mat.Dense
	aos, err := aoList(mol)
	if err != nil {
		return res, err
	}
	if atm < 0 || atm >= len(mol.Atoms) {
		return res, &IntegrationError{Op: "ipnuc", Msg: "atom index out of range"}
	}
	nao := len(aos)
	res = newComp3(nao)
	c := mol.Atoms[atm].Coords
	z := float64(mol.Atoms[atm].Z)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				t := pp.p * dist2(pp.ctr, c)
				f1 := boys(t, 1)
				vpre := -z * pp.pre * (2.0 * math.Pi / pp.p) * pp.k
				for x := 0; x < 3; x++ {
					pc := pp.ctr[x] - c[x]
					res[x].Set(i, j, res[x].At(i, j)+vpre*2.0*pp.p*pc*f1)
				}
			}
		}
	}
	return res, nil
}

func (n *Native) ThreeCenterERIGrad(mol *chem.Molecule, aux *ChargeBasis) ([3][]*mat.Dense, error) {
	var res [3][]*mat.Dense
	aos, err := aoList(mol)
	if err != nil {
		return res, err
	}
	if aux == nil || len(aux.Coords) == 0 {
		return res, &IntegrationError{Op: "3c2e_ip1", Msg: "empty auxiliary basis"}
	}
	nao := len(aos)
	gam := aux.Exp
	for x := 0; x < 3; x++ {
		res[x] = make([]*mat.Dense, len(aux.Coords))
		for k := range aux.Coords {
			res[x][k] = mat.NewDense(nao, nao, nil)
		}
	}
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				b0 := pp.pre * aux.Coef * pp.k * 2.0 * math.Pow(math.Pi, 2.5) /
					(pp.p * gam * math.Sqrt(pp.p+gam))
				omega := pp.p * gam / (pp.p + gam)
				for kq, c := range aux.Coords {
					t := omega * dist2(pp.ctr, c)
					f0 := boys(t, 0)
					f1 := boys(t, 1)
					for x := 0; x < 3; x++ {
						pc := pp.ctr[x] - c[x]
						dA := b0 * (-2.0*pp.q*pp.ab[x]*f0 -
							2.0*omega*(pp.a/pp.p)*pc*f1)
						res[x][kq].Set(i, j, res[x][kq].At(i, j)-dA)
					}
				}
			}
		}
	}
	return res, nil
}

// TwoElectronGrad contracts d(ab|cd)/dR with the two-particle density
// Gamma = P(ab)P(cd) - sum_s Ds(ad)Ds(bc), accumulating per atom.
func (n *Native) TwoElectronGrad(mol *chem.Molecule, p, da, db *mat.Dense) (*mat.Dense, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	nao := len(aos)
	grad := mat.NewDense(len(mol.Atoms), 3, nil)
	for a := 0; a < nao; a++ {
		for b := 0; b < nao; b++ {
			for c := 0; c < nao; c++ {
				for d := 0; d < nao; d++ {
					gamma := p.At(a, b)*p.At(c, d) -
						da.At(a, d)*da.At(b, c) -
						db.At(a, d)*db.At(b, c)
					if gamma == 0 {
						continue
					}
					var dcen [4][3]float64
					eriCenterDeriv(&aos[a], &aos[b], &aos[c], &aos[d], &dcen)
					ats := [4]int{aos[a].atom, aos[b].atom, aos[c].atom, aos[d].atom}
					for ci := 0; ci < 4; ci++ {
						for x := 0; x < 3; x++ {
							grad.Set(ats[ci], x,
								grad.At(ats[ci], x)+0.5*gamma*dcen[ci][x])
						}
					}
				}
			}
		}
	}
	return grad, nil
}

// eriCenterDeriv fills d(ab|cd)/dX for the four shell centers.
func eriCenterDeriv(ai, aj, ak, al *ao, out *[4][3]float64) {
	for ci := 0; ci < 4; ci++ {
		for x := 0; x < 3; x++ {
			out[ci][x] = 0
		}
	}
	for _, pij := range pairPrims(ai, aj) {
		for _, pkl := range pairPrims(ak, al) {
			rho := pij.p * pkl.p / (pij.p + pkl.p)
			var delta [3]float64
			d2 := 0.0
			for x := 0; x < 3; x++ {
				delta[x] = pij.ctr[x] - pkl.ctr[x]
				d2 += delta[x] * delta[x]
			}
			t := rho * d2
			f0 := boys(t, 0)
			f1 := boys(t, 1)
			term1 := 2.0 * math.Pi * math.Pi / (pij.p * pkl.p)
			term2 := math.Sqrt(math.Pi / (pij.p + pkl.p))
			base := pij.pre * pkl.pre * term1 * term2 * pij.k * pkl.k
			for x := 0; x < 3; x++ {
				fd := 2.0 * rho * delta[x] * f1
				out[0][x] += base * (-2.0*pij.q*pij.ab[x]*f0 - fd*pij.a/pij.p)
				out[1][x] += base * (2.0*pij.q*pij.ab[x]*f0 - fd*pij.b/pij.p)
				out[2][x] += base * (-2.0*pkl.q*pkl.ab[x]*f0 + fd*pkl.a/pkl.p)
				out[3][x] += base * (2.0*pkl.q*pkl.ab[x]*f0 + fd*pkl.b/pkl.p)
			}
		}
	}
}
