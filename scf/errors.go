// errors.go --  This file is part of goSCF project.
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

import "fmt"

// InvalidInputError reports a configuration problem: mismatched array
// shapes, unknown irreps, or an irrep electron map requesting more
// electrons than available. It is raised before any numerical work.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Msg
}

func invalidInputf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}
