// basis.go --  This file is part of goSCF project.
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
)

// Built-in s-shell basis tables. The native integral backend evaluates
// s-type shells only, so the tables carry the s part of the named sets.
var sBasisTables = map[string]map[int][]Shell{
	"sto-3g": {
		1: {
			{Exps: []float64{0.3425250914e+01, 0.6239137298e+00, 0.1688554040e+00},
				Coeffs: []float64{0.1543289673e+00, 0.5353281423e+00, 0.4446345422e+00}},
		},
		2: {
			{Exps: []float64{0.6362421394e+01, 0.1158922999e+01, 0.3136497915e+00},
				Coeffs: []float64{0.1543289673e+00, 0.5353281423e+00, 0.4446345422e+00}},
		},
		8: {
			{Exps: []float64{0.1307093214e+03, 0.2380886605e+02, 0.6443608313e+01},
				Coeffs: []float64{0.1543289673e+00, 0.5353281423e+00, 0.4446345422e+00}},
			{Exps: []float64{0.5033151319e+01, 0.1169596125e+01, 0.3803889600e+00},
				Coeffs: []float64{-0.9996722919e-01, 0.3995128261e+00, 0.7001154689e+00}},
		},
	},
	"6-31g": {
		1: {
			{Exps: []float64{0.1873113696e+02, 0.2825394365e+01, 0.6401216923e+00},
				Coeffs: []float64{0.3349460434e-01, 0.2347269535e+00, 0.8137573261e+00}},
			{Exps: []float64{0.1612777588e+00}, Coeffs: []float64{1.0}},
		},
	},
}

// ShellsFor looks up the built-in s-shell set of one element.
func ShellsFor(basis string, z int) ([]Shell, error) {
	tab, ok := sBasisTables[basis]
	if !ok {
		return nil, fmt.Errorf("unknown basis %q", basis)
	}
	sh, ok := tab[z]
	if !ok {
		return nil, fmt.Errorf("basis %q has no entry for element %s", basis, Symbol(z))
	}
	return sh, nil
}

// NewMolecule assembles a Molecule from element symbols, coordinates in
// Bohr and a built-in basis name.
func NewMolecule(symbols []string, coords [][3]float64, basis string, charge, spin int) (*Molecule, error) {
	if len(symbols) != len(coords) {
		return nil, fmt.Errorf("got %d atoms but %d coordinates", len(symbols), len(coords))
	}
	mol := &Molecule{Charge: charge, Spin: spin}
	for i, s := range symbols {
		z := AtomicNumber(s)
		if z == 0 {
			return nil, fmt.Errorf("unknown element %q", s)
		}
		shells, err := ShellsFor(basis, z)
		if err != nil {
			return nil, err
		}
		mol.Atoms = append(mol.Atoms, Atom{
			Z:      z,
			Name:   fmt.Sprintf("%s%d", s, i+1),
			Coords: coords[i],
			Shells: shells,
		})
	}
	return mol, nil
}
