// provider.go --  This file is part of goSCF project.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
)

// IntegrationError reports a failure of the integral backend, usually a
// malformed geometry or basis. It is fatal for the run.
type IntegrationError struct {
	Op  string
	Msg string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integral %s: %s", e.Op, e.Msg)
}

// TwoElectronList stores the unique two-electron repulsion integrals
// (ij|kl) with i>=j, k>=l, ij>=kl. Indices are packed into a single int
// and decoded with Decode.
type TwoElectronList struct {
	NAO int
	Idx []int
	Val []float64
}

// Decode unpacks one composite index into (i, j, k, l).
func (t *TwoElectronList) Decode(v int) (int, int, int, int) {
	n := t.NAO
	i := v / (n * n * n)
	v = v % (n * n * n)
	j := v / (n * n)
	v = v % (n * n)
	return i, j, v / n, v % n
}

func (t *TwoElectronList) encode(i, j, k, l int) int {
	n := t.NAO
	return ((i*n+j)*n+k)*n + l
}

// ChargeBasis is the synthetic auxiliary basis representing external
// point charges: one sharp unit-charge Gaussian per charge center.
type ChargeBasis struct {
	Coords [][3]float64
	// Exp is the shared Gaussian exponent; Coef normalizes each
	// function so its charge density integrates to one.
	Exp  float64
	Coef float64
}

// PointChargeExp makes the auxiliary Gaussians numerically
// indistinguishable from point charges at the working precision.
const PointChargeExp = 1e9

// NewPointChargeBasis builds the auxiliary basis for a set of charge
// centers, approximating every point charge by exp(-1e9 r^2).
func NewPointChargeBasis(coords [][3]float64) *ChargeBasis {
	return NewChargeBasis(coords, PointChargeExp)
}

// NewChargeBasis is NewPointChargeBasis with a caller-chosen exponent,
// used to probe the sharp-Gaussian limit.
func NewChargeBasis(coords [][3]float64, expnt float64) *ChargeBasis {
	return &ChargeBasis{
		Coords: coords,
		Exp:    expnt,
		Coef:   math.Pow(expnt/math.Pi, 1.5),
	}
}

// Provider supplies AO-basis integral tensors for a molecule. Packed
// results follow the linalg.TrilIndex map. Implementations are free to
// parallelize internally; the SCF core stays single-threaded.
type Provider interface {
	Overlap(mol *chem.Molecule) (*mat.SymDense, error)
	Kinetic(mol *chem.Molecule) (*mat.SymDense, error)
	NuclearAttraction(mol *chem.Molecule) (*mat.SymDense, error)
	// CoreHamiltonian is kinetic plus nuclear attraction.
	CoreHamiltonian(mol *chem.Molecule) (*mat.SymDense, error)
	TwoElectron(mol *chem.Molecule) (*TwoElectronList, error)

	// ThreeCenterERI returns (mu nu | k) over the auxiliary charge
	// basis, packed s2ij: one row of length TrilSize(nao) per column k.
	ThreeCenterERI(mol *chem.Molecule, aux *ChargeBasis) (*mat.Dense, error)
	// ThreeCenterERIGrad returns <nabla_x mu, nu | k>, the bra-center
	// derivative of the three-center tensor, per Cartesian component
	// and auxiliary function, full square storage.
	ThreeCenterERIGrad(mol *chem.Molecule, aux *ChargeBasis) ([3][]*mat.Dense, error)

	// One-electron derivative kinds for nuclear gradients, all in the
	// <nabla_x mu | Op | nu> convention (derivative with respect to the
	// electron coordinate acting on the bra function).
	IPOverlap(mol *chem.Molecule) ([3]*mat.Dense, error)
	IPKinetic(mol *chem.Molecule) ([3]*mat.Dense, error)
	IPNuclear(mol *chem.Molecule) ([3]*mat.Dense, error)
	// NuclearAttractionOperatorDeriv differentiates <mu|Vne|nu> with
	// respect to the position of one nucleus (the operator center).
	NuclearAttractionOperatorDeriv(mol *chem.Molecule, atm int) ([3]*mat.Dense, error)
	// TwoElectronGrad contracts the two-electron derivative integrals
	// with the supplied total and per-spin densities, returning the
	// natm x 3 two-electron gradient contribution dE2/dR.
	TwoElectronGrad(mol *chem.Molecule, p, da, db *mat.Dense) (*mat.Dense, error)
}
