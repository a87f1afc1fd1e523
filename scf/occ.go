// occ.go --  This file is part of goSCF project.
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
	"math"

	"golang.org/x/exp/slices"

	"example.com/goscf/chem"
)

// IrrepNelec is the required (alpha, beta) electron count of one irrep.
type IrrepNelec struct {
	Alpha, Beta int
}

// SplitNelec splits a total irrep electron count into spin channels,
// rounding beta down.
func SplitNelec(total int) IrrepNelec {
	b := total / 2
	return IrrepNelec{Alpha: total - b, Beta: b}
}

func (n IrrepNelec) spin(s int) int {
	if s == 0 {
		return n.Alpha
	}
	return n.Beta
}

// round9 rounds an orbital energy to 9 decimal digits so that
// floating-point noise does not break occupation ties.
func round9(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}

// argsortRounded returns index order by ascending rounded energy;
// stability keeps the original orbital order on exact ties.
func argsortRounded(e []float64, idx []int) []int {
	order := make([]int, len(idx))
	copy(order, idx)
	slices.SortStableFunc(order, func(a, b int) int {
		ea, eb := round9(e[a]), round9(e[b])
		switch {
		case ea < eb:
			return -1
		case ea > eb:
			return 1
		}
		return 0
	})
	return order
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// ResolveOccupation assigns 0/1 occupations per spin channel. Irreps
// present in irrepNelec are filled with their lowest orbitals first;
// the remaining ("floating") electrons fill the pooled unconstrained
// irreps by global energy order. Without orbital labels it degenerates
// to a plain per-spin aufbau fill.
func ResolveOccupation(mol *chem.Molecule, mos MOSet, irrepNelec map[string]IrrepNelec, nelec [2]int) ([2][]float64, error) {
	var occ [2][]float64
	for s := 0; s < 2; s++ {
		n := len(mos.Energy[s])
		occ[s] = make([]float64, n)
		if nelec[s] > n {
			return occ, invalidInputf("spin channel %d: %d electrons but only %d orbitals", s, nelec[s], n)
		}
	}

	if !mos.HasSym() {
		if len(irrepNelec) > 0 {
			return occ, invalidInputf("irrep electron map supplied but orbitals carry no irrep labels")
		}
		for s := 0; s < 2; s++ {
			order := argsortRounded(mos.Energy[s], allIndices(len(mos.Energy[s])))
			for _, i := range order[:nelec[s]] {
				occ[s][i] = 1
			}
		}
		return occ, nil
	}

	for s := 0; s < 2; s++ {
		fixed := 0
		var left []int
		for _, ir := range mol.Irreps {
			var irIdx []int
			for i, sym := range mos.OrbSym[s] {
				if sym == ir.ID {
					irIdx = append(irIdx, i)
				}
			}
			want, ok := irrepNelec[ir.Name]
			if !ok {
				left = append(left, irIdx...)
				continue
			}
			ns := want.spin(s)
			if ns > len(irIdx) {
				return occ, invalidInputf(
					"irrep %s spin %d: %d electrons requested but only %d orbitals available",
					ir.Name, s, ns, len(irIdx))
			}
			order := argsortRounded(mos.Energy[s], irIdx)
			for _, i := range order[:ns] {
				occ[s][i] = 1
			}
			fixed += ns
		}
		floating := nelec[s] - fixed
		if floating < 0 {
			return occ, invalidInputf(
				"spin channel %d: irrep electron map fixes %d electrons but only %d available",
				s, fixed, nelec[s])
		}
		if floating > len(left) {
			return occ, invalidInputf(
				"spin channel %d: %d floating electrons but only %d unconstrained orbitals",
				s, floating, len(left))
		}
		order := argsortRounded(mos.Energy[s], left)
		for _, i := range order[:floating] {
			occ[s][i] = 1
		}
	}
	return occ, nil
}
