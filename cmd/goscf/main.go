// main.go --  This file is part of goSCF project.
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
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"

	"example.com/goscf/chem"
	"example.com/goscf/chkfile"
	"example.com/goscf/grad"
	"example.com/goscf/integral"
	"example.com/goscf/qmmm"
	"example.com/goscf/scf"
)

// jobConfig mirrors the YAML input file.
type jobConfig struct {
	Atoms []struct {
		Element string    `mapstructure:"element"`
		XYZ     []float64 `mapstructure:"xyz"`
	} `mapstructure:"atoms"`
	Basis    string `mapstructure:"basis"`
	Charge   int    `mapstructure:"charge"`
	Spin     int    `mapstructure:"spin"`
	Symmetry bool   `mapstructure:"symmetry"`

	IrrepNelec map[string]int `mapstructure:"irrep_nelec"`

	MaxCycle int     `mapstructure:"max_cycle"`
	ConvTol  float64 `mapstructure:"conv_tol"`

	Gradient bool `mapstructure:"gradient"`

	PointCharges []struct {
		XYZ    []float64 `mapstructure:"xyz"`
		Charge float64   `mapstructure:"charge"`
	} `mapstructure:"point_charges"`
}

func main() {
	cfgPath := pflag.StringP("config", "c", "", "job description file (YAML)")
	chkPath := pflag.String("chk", "", "checkpoint output path")
	verbosity := pflag.IntP("verbose", "v", 0, "log verbosity (0-2)")
	pflag.Parse()

	log := newLogger(*verbosity)
	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "usage: goscf -c job.yaml [--chk out.yaml] [-v N]")
		os.Exit(2)
	}
	if err := run(*cfgPath, *chkPath, log); err != nil {
		log.Error(err, "job failed")
		os.Exit(1)
	}
}

func newLogger(verbosity int) logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zl, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return zapr.NewLogger(zl)
}

func run(cfgPath, chkPath string, log logr.Logger) error {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetDefault("basis", "sto-3g")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var cfg jobConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	mol, err := buildMolecule(&cfg)
	if err != nil {
		return err
	}
	if cfg.Symmetry {
		if err := mol.ApplyHomonuclearSymmetry(); err != nil {
			log.Info("symmetry unavailable for this system, continuing without",
				"reason", err.Error())
		} else {
			log.Info("symmetry enabled", "group", mol.GroupName)
		}
	}

	prov := &integral.Native{}
	mf := scf.NewUHF(mol, prov)
	mf.Log = log
	if cfg.MaxCycle > 0 {
		mf.Settings.MaxCycle = cfg.MaxCycle
	}
	if cfg.ConvTol > 0 {
		mf.Settings.ConvTol = cfg.ConvTol
	}
	for name, n := range cfg.IrrepNelec {
		mf.SetIrrepNelecTotal(name, n)
	}
	if chkPath != "" {
		mf.Chk = &chkfile.Store{Path: chkPath, Overwrite: true}
	}

	var field scf.MeanField = mf
	var pc *qmmm.PointCharges
	if len(cfg.PointCharges) > 0 {
		coords := make([][3]float64, len(cfg.PointCharges))
		charges := make([]float64, len(cfg.PointCharges))
		for i, p := range cfg.PointCharges {
			if len(p.XYZ) != 3 {
				return fmt.Errorf("point charge %d: want 3 coordinates, got %d", i, len(p.XYZ))
			}
			coords[i] = [3]float64{p.XYZ[0], p.XYZ[1], p.XYZ[2]}
			charges[i] = p.Charge
		}
		pc, err = qmmm.NewPointCharges(coords, charges)
		if err != nil {
			return err
		}
		field = qmmm.Charges(mf, prov, pc)
		log.Info("point-charge embedding enabled", "ncharges", len(charges))
	}

	res, err := scf.Kernel(field)
	if err != nil {
		return err
	}
	fmt.Printf("converged: %v\n", res.Converged)
	fmt.Printf("E(elec)   = %.10f a.u.\n", res.Elec)
	fmt.Printf("E(nuc)    = %.10f a.u.\n", mol.EnergyNuc())
	fmt.Printf("E(tot)    = %.10f a.u.\n", res.Etot)
	if res.MO.HasSym() {
		counts, err := scf.GetIrrepNelec(mol, res.MO, res.Occ)
		if err == nil {
			for name, n := range counts {
				fmt.Printf("irrep %-6s alpha=%d beta=%d\n", name, n.Alpha, n.Beta)
			}
		}
	}

	if cfg.Gradient {
		gm := grad.NewUHF(mol, prov, res)
		gm.Log = log
		var method grad.Method = gm
		if pc != nil {
			method = qmmm.ChargesGrad(gm, prov, pc)
		}
		de, err := grad.Kernel(method)
		if err != nil {
			return err
		}
		fmt.Println("nuclear gradient (a.u.):")
		printGradient(mol, de)
	}
	return nil
}

func buildMolecule(cfg *jobConfig) (*chem.Molecule, error) {
	symbols := make([]string, len(cfg.Atoms))
	coords := make([][3]float64, len(cfg.Atoms))
	for i, a := range cfg.Atoms {
		if len(a.XYZ) != 3 {
			return nil, fmt.Errorf("atom %d: want 3 coordinates, got %d", i, len(a.XYZ))
		}
		symbols[i] = a.Element
		coords[i] = [3]float64{a.XYZ[0], a.XYZ[1], a.XYZ[2]}
	}
	return chem.NewMolecule(symbols, coords, cfg.Basis, cfg.Charge, cfg.Spin)
}

func printGradient(mol *chem.Molecule, de *mat.Dense) {
	for i := 0; i < mol.NAtm(); i++ {
		fmt.Printf("  %-4s % .10f % .10f % .10f\n",
			mol.Atoms[i].Name, de.At(i, 0), de.At(i, 1), de.At(i, 2))
	}
}
