// molecule.go --  This file is part of goSCF project.
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
package chem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Shell is a contracted s-type Gaussian shell. Coeffs multiply
// primitive-normalized Gaussians, one AO per shell.
type Shell struct {
	Exps   []float64
	Coeffs []float64
}

type Atom struct {
	Z      int
	Name   string
	Coords [3]float64
	Shells []Shell
}

// Irrep identifies one irreducible representation of the molecular
// point group.
type Irrep struct {
	ID   int
	Name string
}

// Molecule holds the geometry, basis and symmetry metadata of one system.
// It is built once by the caller and read-only afterwards; the SCF engine
// and the embedding layer reference it but never mutate it.
type Molecule struct {
	Atoms  []Atom
	Charge int
	// Spin is Nalpha-Nbeta.
	Spin int

	// Point group metadata. SymmOrb holds one nao x n_ir block of
	// symmetry-adapted basis coefficients per irrep, in the same order
	// as Irreps. Empty when symmetry is not used.
	GroupName string
	Irreps    []Irrep
	SymmOrb   []*mat.Dense
}

func (m *Molecule) HasSymmetry() bool {
	return len(m.SymmOrb) > 0
}

// NAO is the number of atomic orbitals (one per s shell).
func (m *Molecule) NAO() int {
	n := 0
	for _, a := range m.Atoms {
		n += len(a.Shells)
	}
	return n
}

func (m *Molecule) NAtm() int { return len(m.Atoms) }

// NElec is the total electron count after applying the molecular charge.
func (m *Molecule) NElec() int {
	n := 0
	for _, a := range m.Atoms {
		n += a.Z
	}
	return n - m.Charge
}

// NelecSpin splits NElec into (alpha, beta) according to Spin.
func (m *Molecule) NelecSpin() (int, int) {
	n := m.NElec()
	na := (n + m.Spin) / 2
	return na, n - na
}

func (m *Molecule) AtomCharge(i int) float64 { return float64(m.Atoms[i].Z) }

func (m *Molecule) AtomCoord(i int) [3]float64 { return m.Atoms[i].Coords }

// AOSlices gives the [start,end) AO index range of every atom.
func (m *Molecule) AOSlices() [][2]int {
	res := make([][2]int, len(m.Atoms))
	p := 0
	for i, a := range m.Atoms {
		res[i] = [2]int{p, p + len(a.Shells)}
		p += len(a.Shells)
	}
	return res
}

// EnergyNuc is the classical nucleus-nucleus repulsion energy.
func (m *Molecule) EnergyNuc() float64 {
	res := 0.0
	for i := range m.Atoms {
		for j := 0; j < i; j++ {
			r := dist(m.Atoms[i].Coords, m.Atoms[j].Coords)
			res += float64(m.Atoms[i].Z) * float64(m.Atoms[j].Z) / r
		}
	}
	return res
}

// IrrepByName returns the irrep metadata for a given name.
func (m *Molecule) IrrepByName(name string) (Irrep, bool) {
	for _, ir := range m.Irreps {
		if ir.Name == name {
			return ir, true
		}
	}
	return Irrep{}, false
}

// IrrepName maps an irrep id back to its human-readable name.
func (m *Molecule) IrrepName(id int) string {
	for _, ir := range m.Irreps {
		if ir.ID == id {
			return ir.Name
		}
	}
	return fmt.Sprintf("ir%d", id)
}

func dist(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
