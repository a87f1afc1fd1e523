// native.go --  This file is part of goSCF project.
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
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/linalg"
)

// Native evaluates the closed-form integrals of contracted s-type
// Gaussian shells. Higher angular momentum is not supported; such bases
// belong to an external backend.
type Native struct{}

func NewNative() *Native { return &Native{} }

// ao is one basis function flattened out of the molecule.
type ao struct {
	atom  int
	coord [3]float64
	exps  []float64
	coefs []float64
}

func aoList(mol *chem.Molecule) ([]ao, error) {
	if len(mol.Atoms) == 0 {
		return nil, &IntegrationError{Op: "build", Msg: "molecule has no atoms"}
	}
	var res []ao
	for ia, a := range mol.Atoms {
		for _, sh := range a.Shells {
			if len(sh.Exps) == 0 || len(sh.Exps) != len(sh.Coeffs) {
				return nil, &IntegrationError{
					Op:  "build",
					Msg: "malformed shell on atom " + a.Name,
				}
			}
			res = append(res, ao{atom: ia, coord: a.Coords, exps: sh.Exps, coefs: sh.Coeffs})
		}
	}
	return res, nil
}

func normCoeff(alpha float64) float64 {
	return math.Pow(2.0*alpha/math.Pi, 0.75)
}

// pairPrim caches the Gaussian product quantities of one primitive pair.
type pairPrim struct {
	a, b float64 // exponents
	p, q float64 // p = a+b, q = ab/p
	k    float64 // exp(-q |A-B|^2)
	pre  float64 // contraction coefficients times primitive norms
	ab   [3]float64
	ctr  [3]float64 // (aA + bB)/p
}

func pairPrims(m, n *ao) []pairPrim {
	q2 := dist2(m.coord, n.coord)
	res := make([]pairPrim, 0, len(m.exps)*len(n.exps))
	for i, a := range m.exps {
		for j, b := range n.exps {
			p := a + b
			q := a * b / p
			var ctr, ab [3]float64
			for x := 0; x < 3; x++ {
				ctr[x] = (a*m.coord[x] + b*n.coord[x]) / p
				ab[x] = m.coord[x] - n.coord[x]
			}
			res = append(res, pairPrim{
				a: a, b: b, p: p, q: q,
				k:   math.Exp(-q * q2),
				pre: normCoeff(a) * normCoeff(b) * m.coefs[i] * n.coefs[j],
				ab:  ab,
				ctr: ctr,
			})
		}
	}
	return res
}

func dist2(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

func (n *Native) Overlap(mol *chem.Molecule) (*mat.SymDense, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	nao := len(aos)
	res := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			s := 0.0
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				s += pp.pre * pp.k * math.Pow(math.Pi/pp.p, 1.5)
			}
			res.SetSym(i, j, s)
		}
	}
	return res, nil
}

// kinFactor is the s-function kinetic-energy factor multiplying the
// elementary overlap of one primitive pair.
func kinFactor(pp *pairPrim, bCoord [3]float64) float64 {
	pb2 := 0.0
	for x := 0; x < 3; x++ {
		d := pp.ctr[x] - bCoord[x]
		pb2 += d * d
	}
	return 3.0*pp.b - 2.0*pp.b*pp.b*(pb2+1.5/pp.p)
}

func (n *Native) Kinetic(mol *chem.Molecule) (*mat.SymDense, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	nao := len(aos)
	res := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			t := 0.0
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				s := pp.pre * pp.k * math.Pow(math.Pi/pp.p, 1.5)
				t += s * kinFactor(&pp, aos[j].coord)
			}
			res.SetSym(i, j, t)
		}
	}
	return res, nil
}

func (n *Native) NuclearAttraction(mol *chem.Molecule) (*mat.SymDense, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	nao := len(aos)
	res := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			v := 0.0
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				for at := range mol.Atoms {
					pc2 := dist2(pp.ctr, mol.Atoms[at].Coords)
					v += -float64(mol.Atoms[at].Z) * pp.pre * pp.k *
						(2.0 * math.Pi / pp.p) * boys(pp.p*pc2, 0)
				}
			}
			res.SetSym(i, j, v)
		}
	}
	return res, nil
}

func (n *Native) CoreHamiltonian(mol *chem.Molecule) (*mat.SymDense, error) {
	t, err := n.Kinetic(mol)
	if err != nil {
		return nil, err
	}
	v, err := n.NuclearAttraction(mol)
	if err != nil {
		return nil, err
	}
	nao := t.SymmetricDim()
	res := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			res.SetSym(i, j, t.At(i, j)+v.At(i, j))
		}
	}
	return res, nil
}

// eriQuartet is the (ij|kl) repulsion integral of four s-type AOs.
func eriQuartet(ai, aj, ak, al *ao) float64 {
	res := 0.0
	for _, pij := range pairPrims(ai, aj) {
		for _, pkl := range pairPrims(ak, al) {
			d2 := dist2(pij.ctr, pkl.ctr)
			denom := 1.0/pij.p + 1.0/pkl.p
			term1 := 2.0 * math.Pi * math.Pi / (pij.p * pkl.p)
			term2 := math.Sqrt(math.Pi / (pij.p + pkl.p))
			res += pij.pre * pkl.pre * term1 * term2 * pij.k * pkl.k * boys(d2/denom, 0)
		}
	}
	return res
}

// TwoElectron enumerates the unique integrals (i>=j, k>=l, ij>=kl) and
// evaluates them fanned out over the available cores.
func (n *Native) TwoElectron(mol *chem.Molecule) (*TwoElectronList, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	nao := len(aos)
	list := &TwoElectronList{NAO: nao}
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			ij := linalg.TrilIndex(i, j)
			for k := 0; k <= i; k++ {
				for l := 0; l <= k; l++ {
					if linalg.TrilIndex(k, l) > ij {
						continue
					}
					list.Idx = append(list.Idx, list.encode(i, j, k, l))
				}
			}
		}
	}
	list.Val = make([]float64, len(list.Idx))

	workers := runtime.GOMAXPROCS(-1)
	if workers > len(list.Idx) {
		workers = 1
	}
	chunk := (len(list.Idx) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(list.Idx) {
			hi = len(list.Idx)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for idx := lo; idx < hi; idx++ {
				i, j, k, l := list.Decode(list.Idx[idx])
				list.Val[idx] = eriQuartet(&aos[i], &aos[j], &aos[k], &aos[l])
			}
		}(lo, hi)
	}
	wg.Wait()
	return list, nil
}

// ThreeCenterERI evaluates (mu nu | k~) against the sharp auxiliary
// Gaussians, packed s2ij.
func (n *Native) ThreeCenterERI(mol *chem.Molecule, aux *ChargeBasis) (*mat.Dense, error) {
	aos, err := aoList(mol)
	if err != nil {
		return nil, err
	}
	if aux == nil || len(aux.Coords) == 0 {
		return nil, &IntegrationError{Op: "3c2e", Msg: "empty auxiliary basis"}
	}
	nao := len(aos)
	res := mat.NewDense(linalg.TrilSize(nao), len(aux.Coords), nil)
	gam := aux.Exp
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			row := linalg.TrilIndex(i, j)
			for _, pp := range pairPrims(&aos[i], &aos[j]) {
				b0 := pp.pre * aux.Coef * pp.k * 2.0 * math.Pow(math.Pi, 2.5) /
					(pp.p * gam * math.Sqrt(pp.p+gam))
				omega := pp.p * gam / (pp.p + gam)
				for kq, c := range aux.Coords {
					t := omega * dist2(pp.ctr, c)
					res.Set(row, kq, res.At(row, kq)+b0*boys(t, 0))
				}
			}
		}
	}
	return res, nil
}
