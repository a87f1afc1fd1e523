// chkfile.go --  This file is part of goSCF project.
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

// Package chkfile persists SCF solutions as YAML checkpoint files so a
// run can be inspected or restarted later.
package chkfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"example.com/goscf/chem"
	"example.com/goscf/scf"
)

// Store writes checkpoints to a single file path.
type Store struct {
	Path string
	// Overwrite allows replacing an existing checkpoint.
	Overwrite bool
}

// SpinBlock is the per-spin part of a checkpoint.
type SpinBlock struct {
	Energy []float64   `yaml:"energy"`
	Occ    []float64   `yaml:"occ"`
	Coeff  [][]float64 `yaml:"coeff"`
	Irreps []string    `yaml:"irreps,omitempty"`
}

// Checkpoint is the serialized SCF solution.
type Checkpoint struct {
	Group     string     `yaml:"group,omitempty"`
	Etot      float64    `yaml:"e_tot"`
	Converged bool       `yaml:"converged"`
	Alpha     SpinBlock  `yaml:"alpha"`
	Beta      SpinBlock  `yaml:"beta"`
	AtomZ     []int      `yaml:"atom_z"`
	AtomXYZ   [][]float64 `yaml:"atom_xyz"`
}

// DumpSCF implements scf.CheckpointStore.
func (s *Store) DumpSCF(mol *chem.Molecule, etot float64, mos scf.MOSet, occ [2][]float64, converged bool) error {
	if !s.Overwrite {
		if _, err := os.Stat(s.Path); err == nil {
			return fmt.Errorf("checkpoint %s already exists", s.Path)
		}
	}
	chk := Checkpoint{
		Group:     mol.GroupName,
		Etot:      etot,
		Converged: converged,
	}
	for _, a := range mol.Atoms {
		chk.AtomZ = append(chk.AtomZ, a.Z)
		chk.AtomXYZ = append(chk.AtomXYZ, []float64{a.Coords[0], a.Coords[1], a.Coords[2]})
	}
	blocks := [2]*SpinBlock{&chk.Alpha, &chk.Beta}
	for sp := 0; sp < 2; sp++ {
		b := blocks[sp]
		b.Energy = mos.Energy[sp]
		b.Occ = occ[sp]
		nao, nmo := mos.Coeff[sp].Dims()
		b.Coeff = make([][]float64, nao)
		for i := 0; i < nao; i++ {
			row := make([]float64, nmo)
			for j := 0; j < nmo; j++ {
				row[j] = mos.Coeff[sp].At(i, j)
			}
			b.Coeff[i] = row
		}
		if mos.HasSym() {
			for _, id := range mos.OrbSym[sp] {
				b.Irreps = append(b.Irreps, mol.IrrepName(id))
			}
		}
	}
	data, err := yaml.Marshal(&chk)
	if err != nil {
		return fmt.Errorf("checkpoint marshal: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint write: %w", err)
	}
	return nil
}

// Load reads a checkpoint back.
func Load(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint read: %w", err)
	}
	var chk Checkpoint
	if err := yaml.Unmarshal(data, &chk); err != nil {
		return nil, fmt.Errorf("checkpoint parse: %w", err)
	}
	return &chk, nil
}
