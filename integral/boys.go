// boys.go --  This file is part of goSCF project.
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

	"gonum.org/v1/gonum/mathext"
)

// boys evaluates the Boys function F_n(x).
func boys(x float64, n int) float64 {
	nf := float64(n)
	if x < 1e-12 {
		return 1.0/(2.0*nf+1.0) - x/(2.0*nf+3.0)
	}
	return mathext.GammaIncReg(nf+0.5, x) * math.Gamma(nf+0.5) / (2.0 * math.Pow(x, nf+0.5))
}
