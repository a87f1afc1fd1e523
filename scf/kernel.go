// kernel.go --  This file is part of goSCF project.
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

// Package scf implements the unrestricted self-consistent-field engine:
// the iteration driver, DIIS acceleration, occupation resolution and
// orbital canonicalization. Every step goes through the MeanField
// interface so embedding decorators can override individual operations.
package scf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/linalg"
)

// Kernel drives the SCF iteration to convergence. A non-converged run
// is reported through Result.Converged, not as an error.
func Kernel(mf MeanField) (*Result, error) {
	if err := mf.Validate(); err != nil {
		return nil, err
	}
	na, nb := mf.Nelec()
	if na+nb == 1 {
		return KernelHF1e(mf)
	}

	log := mf.Logger()
	set := mf.Conv()
	mol := mf.Mol()

	h, err := mf.GetHcore(mol)
	if err != nil {
		return nil, fmt.Errorf("core hamiltonian: %w", err)
	}
	s, err := mf.GetOvlp(mol)
	if err != nil {
		return nil, fmt.Errorf("overlap: %w", err)
	}
	x, err := linalg.MatrixSqrtInverse(s)
	if err != nil {
		return nil, fmt.Errorf("overlap orthogonalization: %w", err)
	}

	// Core-hamiltonian initial guess.
	hd := denseOf(h)
	mos, err := mf.Eig([2]*mat.Dense{hd, hd}, s)
	if err != nil {
		return nil, fmt.Errorf("initial guess: %w", err)
	}
	occ, err := mf.GetOcc(mos)
	if err != nil {
		return nil, err
	}
	dm := MakeRDM1(mos, occ)

	diis := NewDIIS(set.DIISSpace)
	eNuc := mf.EnergyNuc()
	eOld := 0.0
	res := &Result{}

	for cycle := 1; cycle <= set.MaxCycle; cycle++ {
		veff, err := mf.GetVeff(mol, dm)
		if err != nil {
			return nil, err
		}
		var fock [2]*mat.Dense
		for sp := 0; sp < 2; sp++ {
			f := mat.NewDense(mol.NAO(), mol.NAO(), nil)
			f.Add(hd, veff[sp])
			fock[sp] = f
		}
		eElec := energyElec(dm, hd, fock)

		var errv [2]*mat.Dense
		for sp := 0; sp < 2; sp++ {
			errv[sp] = Residual(fock[sp], dm[sp], s, x)
		}
		diis.Push(fock, errv)
		dRMS := diis.DRMS()
		if set.UseDIIS && cycle >= set.DIISStart {
			fock, err = diis.Extrapolate()
			if err != nil {
				return nil, err
			}
		}

		mos, err = mf.Eig(fock, s)
		if err != nil {
			return nil, err
		}
		occ, err = mf.GetOcc(mos)
		if err != nil {
			return nil, err
		}
		dm = MakeRDM1(mos, occ)
		if log.V(2).Enabled() {
			og := OrbitalGradient(fock, mos, occ)
			log.V(2).Info("orbital rotation gradient", "norm", GradNorm(og))
		}

		dE := eElec - eOld
		eOld = eElec
		log.V(1).Info("scf cycle",
			"cycle", cycle, "etot", eElec+eNuc, "dE", dE, "dRMS", dRMS)

		res.Etot = eElec + eNuc
		res.Elec = eElec
		res.Niter = cycle
		if cycle > 1 && math.Abs(dE) < set.ConvTol && dRMS < set.ConvTolDM {
			res.Converged = true
			break
		}
	}

	res.MO, res.Occ = finalizeOrder(mos, occ)
	if res.Converged {
		log.Info("scf converged", "etot", res.Etot, "cycles", res.Niter)
	} else {
		log.Info("scf not converged", "etot", res.Etot, "cycles", res.Niter)
	}
	if res.MO.HasSym() {
		if counts, err := GetIrrepNelec(mol, res.MO, res.Occ); err == nil {
			log.V(1).Info("electrons per irrep", "counts", counts)
		}
	}
	if chk := mf.Checkpoint(); chk != nil {
		if err := chk.DumpSCF(mol, res.Etot, res.MO, res.Occ, res.Converged); err != nil {
			log.Error(err, "checkpoint dump failed")
		}
	}
	return res, nil
}

// KernelHF1e solves the one-electron problem directly: the Fock matrix
// is the core hamiltonian and no iteration is needed.
func KernelHF1e(mf MeanField) (*Result, error) {
	mol := mf.Mol()
	log := mf.Logger()
	h, err := mf.GetHcore(mol)
	if err != nil {
		return nil, fmt.Errorf("core hamiltonian: %w", err)
	}
	s, err := mf.GetOvlp(mol)
	if err != nil {
		return nil, fmt.Errorf("overlap: %w", err)
	}
	hd := denseOf(h)
	mos, err := mf.Eig([2]*mat.Dense{hd, hd}, s)
	if err != nil {
		return nil, err
	}
	occ, err := mf.GetOcc(mos)
	if err != nil {
		return nil, err
	}
	dm := MakeRDM1(mos, occ)
	eElec := 0.0
	for sp := 0; sp < 2; sp++ {
		eElec += traceProd(dm[sp], hd)
	}
	res := &Result{
		Etot:      eElec + mf.EnergyNuc(),
		Elec:      eElec,
		Converged: true,
		Niter:     1,
	}
	res.MO, res.Occ = finalizeOrder(mos, occ)
	log.Info("one-electron system solved exactly", "etot", res.Etot)
	if chk := mf.Checkpoint(); chk != nil {
		if err := chk.DumpSCF(mol, res.Etot, res.MO, res.Occ, true); err != nil {
			log.Error(err, "checkpoint dump failed")
		}
	}
	return res, nil
}

// energyElec is the UHF electronic energy 1/2 sum_s Tr(D_s (h + F_s)).
func energyElec(dm [2]*mat.Dense, h *mat.Dense, fock [2]*mat.Dense) float64 {
	e := 0.0
	for sp := 0; sp < 2; sp++ {
		var hf mat.Dense
		hf.Add(h, fock[sp])
		e += 0.5 * traceProd(dm[sp], &hf)
	}
	return e
}

func traceProd(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	t := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t += a.At(i, j) * b.At(j, i)
		}
	}
	return t
}

// finalizeOrder sorts each spin channel so occupied orbitals come
// first, each group ascending by rounded energy; the stable sort keeps
// the irrep grouping on degenerate ties.
func finalizeOrder(mos MOSet, occ [2][]float64) (MOSet, [2][]float64) {
	out := MOSet{}
	var outOcc [2][]float64
	for sp := 0; sp < 2; sp++ {
		n := len(mos.Energy[sp])
		var occIdx, virIdx []int
		for i := 0; i < n; i++ {
			if occ[sp][i] > 0 {
				occIdx = append(occIdx, i)
			} else {
				virIdx = append(virIdx, i)
			}
		}
		order := append(argsortRounded(mos.Energy[sp], occIdx),
			argsortRounded(mos.Energy[sp], virIdx)...)

		nao, _ := mos.Coeff[sp].Dims()
		out.Energy[sp] = make([]float64, n)
		out.Coeff[sp] = mat.NewDense(nao, n, nil)
		outOcc[sp] = make([]float64, n)
		if mos.HasSym() {
			out.OrbSym[sp] = make([]int, n)
		}
		for p, i := range order {
			out.Energy[sp][p] = mos.Energy[sp][i]
			outOcc[sp][p] = occ[sp][i]
			for r := 0; r < nao; r++ {
				out.Coeff[sp].Set(r, p, mos.Coeff[sp].At(r, i))
			}
			if mos.HasSym() {
				out.OrbSym[sp][p] = mos.OrbSym[sp][i]
			}
		}
	}
	return out, outOcc
}

func denseOf(s *mat.SymDense) *mat.Dense {
	n, _ := s.Dims()
	d := mat.NewDense(n, n, nil)
	d.Copy(s)
	return d
}
