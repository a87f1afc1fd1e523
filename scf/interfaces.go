// interfaces.go --  This file is part of goSCF project.
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
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
)

// MOSet is one pair of molecular-orbital solutions, alpha first. OrbSym
// carries the irrep id of every column and stays empty when symmetry is
// not in use; column order always matches Energy of the same spin.
type MOSet struct {
	Energy [2][]float64
	Coeff  [2]*mat.Dense
	OrbSym [2][]int
}

// HasSym reports whether the orbitals carry irrep labels.
func (m *MOSet) HasSym() bool {
	return len(m.OrbSym[0]) > 0 && len(m.OrbSym[1]) > 0
}

// Settings are the iteration-control knobs of the SCF engine.
type Settings struct {
	// ConvTol is the energy-change threshold, ConvTolDM the
	// density/residual threshold.
	ConvTol   float64
	ConvTolDM float64
	MaxCycle  int

	UseDIIS   bool
	DIISSpace int
	DIISStart int
}

// DefaultSettings mirror the usual mean-field defaults.
func DefaultSettings() Settings {
	return Settings{
		ConvTol:   1e-9,
		ConvTolDM: 1e-6,
		MaxCycle:  50,
		UseDIIS:   true,
		DIISSpace: 8,
		DIISStart: 2,
	}
}

// MeanField is the capability interface the SCF driver iterates over.
// Decorators (e.g. the point-charge embedding) wrap a MeanField and
// override individual operations; Kernel dispatches every step through
// the interface so overrides stay visible to the whole iteration.
type MeanField interface {
	Mol() *chem.Molecule
	// Nelec returns the (alpha, beta) electron counts.
	Nelec() (int, int)
	Conv() Settings
	Logger() logr.Logger
	// Checkpoint may return nil when no store is attached.
	Checkpoint() CheckpointStore

	// Validate checks the configuration (e.g. the per-irrep electron
	// map) before any Fock matrix is built.
	Validate() error

	GetHcore(mol *chem.Molecule) (*mat.SymDense, error)
	GetOvlp(mol *chem.Molecule) (*mat.SymDense, error)
	// GetVeff builds the effective two-electron potential of each spin
	// channel from the spin densities.
	GetVeff(mol *chem.Molecule, dm [2]*mat.Dense) ([2]*mat.Dense, error)
	// Eig diagonalizes the Fock pair, per irrep block when symmetry is
	// active.
	Eig(f [2]*mat.Dense, s *mat.SymDense) (MOSet, error)
	GetOcc(mos MOSet) ([2][]float64, error)
	EnergyNuc() float64
}

// CheckpointStore persists a converged (or best-effort) SCF solution.
// The payload format is owned by the implementation.
type CheckpointStore interface {
	DumpSCF(mol *chem.Molecule, etot float64, mos MOSet, occ [2][]float64, converged bool) error
}

// Result is the outcome of one SCF run. Converged=false is not an
// error: the fields hold the best available solution and the caller
// decides whether to accept it.
type Result struct {
	Etot      float64
	Elec      float64
	Converged bool
	Niter     int
	MO        MOSet
	Occ       [2][]float64
}

// MakeRDM1 builds the spin density matrices from orbitals and
// occupation.
func MakeRDM1(mos MOSet, occ [2][]float64) [2]*mat.Dense {
	var res [2]*mat.Dense
	for s := 0; s < 2; s++ {
		nao, nmo := mos.Coeff[s].Dims()
		d := mat.NewDense(nao, nao, nil)
		for m := 0; m < nmo; m++ {
			o := occ[s][m]
			if o == 0 {
				continue
			}
			for i := 0; i < nao; i++ {
				ci := mos.Coeff[s].At(i, m)
				if ci == 0 {
					continue
				}
				for j := 0; j < nao; j++ {
					d.Set(i, j, d.At(i, j)+o*ci*mos.Coeff[s].At(j, m))
				}
			}
		}
		res[s] = d
	}
	return res
}

// MakeRDM1 of the Result's final orbitals.
func (r *Result) MakeRDM1() [2]*mat.Dense {
	return MakeRDM1(r.MO, r.Occ)
}
