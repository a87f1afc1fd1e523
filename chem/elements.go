// elements.go --  This file is part of goSCF project.
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
	"golang.org/x/exp/slices"
)

// BohrPerAngstrom converts Angstrom coordinates to atomic units.
const BohrPerAngstrom = 1.0 / 0.52917720859

var elemSymbols = []string{
	"X", "H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
}

// AtomicNumber resolves an element symbol; 0 means unknown.
func AtomicNumber(symb string) int {
	z := slices.Index(elemSymbols, symb)
	if z < 0 {
		return 0
	}
	return z
}

// Symbol returns the element symbol for a nuclear charge.
func Symbol(z int) string {
	if z <= 0 || z >= len(elemSymbols) {
		return "X"
	}
	return elemSymbols[z]
}
