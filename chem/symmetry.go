// symmetry.go --  This file is part of goSCF project.
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

// ApplyHomonuclearSymmetry fills the symmetry metadata of a homonuclear
// diatomic with s-shell basis functions: the symmetric (A1g) and
// antisymmetric (A1u) combinations of equivalent AOs on the two centers.
// Point-group detection for general molecules is the caller's business;
// this covers the diatomic case the engine tests exercise.
func (m *Molecule) ApplyHomonuclearSymmetry() error {
	if len(m.Atoms) != 2 {
		return fmt.Errorf("homonuclear symmetry needs 2 atoms, got %d", len(m.Atoms))
	}
	if m.Atoms[0].Z != m.Atoms[1].Z || len(m.Atoms[0].Shells) != len(m.Atoms[1].Shells) {
		return fmt.Errorf("atoms %s and %s are not equivalent", m.Atoms[0].Name, m.Atoms[1].Name)
	}
	nsh := len(m.Atoms[0].Shells)
	nao := m.NAO()
	c := 1.0 / math.Sqrt(2)
	g := mat.NewDense(nao, nsh, nil)
	u := mat.NewDense(nao, nsh, nil)
	for i := 0; i < nsh; i++ {
		g.Set(i, i, c)
		g.Set(nsh+i, i, c)
		u.Set(i, i, c)
		u.Set(nsh+i, i, -c)
	}
	m.GroupName = "Dooh"
	// Dooh numbering: A1g carries id 0, A1u id 5.
	m.Irreps = []Irrep{{ID: 0, Name: "A1g"}, {ID: 5, Name: "A1u"}}
	m.SymmOrb = []*mat.Dense{g, u}
	return nil
}
