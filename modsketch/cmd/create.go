package cmd

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/seqio"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new modset from one or more sequence files",
	Long: `Create a new modset from one or more sequence files

Scans every input sequence with the modimizer iterator and populates a
fresh table with isAdd=true, so every distinct canonical k-mer hash
encountered gets a dense id (spec §4.2/§4.3).
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		cfg := loadConfig(getFlagString(cmd, "config"))

		tableBits := getFlagInt(cmd, "table-bits")
		if tableBits == 0 {
			tableBits = cfg.TableBits
		}
		k := getFlagInt(cmd, "k")
		if k == 0 {
			k = cfg.K
		}
		w := getFlagInt(cmd, "w")
		if w == 0 {
			w = cfg.W
		}
		seed := getFlagInt64(cmd, "seed")
		if seed == 0 {
			seed = cfg.Seed
		}
		out := expandPath(getFlagString(cmd, "out"))
		force := getFlagBool(cmd, "force")
		mustNotExist(out, force)

		if len(args) == 0 {
			checkError(errors.New("create: at least one input sequence file required"))
		}

		h, err := hash.New(k, w, seed)
		checkError(errors.Wrap(err, "create"))
		ms, err := modset.New(h, tableBits, 0)
		checkError(errors.Wrap(err, "create"))

		var nSeqs, nBases int
		for _, file := range args {
			if opt.Verbose {
				log.Infof("scanning %s", file)
			}
			err := seqio.ReadAll(file, func(rec seqio.Record) error {
				nSeqs++
				nBases += rec.Len
				return growOverSeq(ms, rec.Seq2bit)
			})
			checkError(errors.Wrapf(err, "create: reading %s", file))
		}
		ms.Pack()

		f, err := xopen.Wopen(out)
		checkError(errors.Wrapf(err, "create: opening %s", out))
		defer f.Close()
		checkError(errors.Wrap(ms.Write(f), "create: writing modset"))

		if opt.Verbose {
			log.Infof("created %s: %d sequences, %d bases, %d distinct mods", out, nSeqs, nBases, ms.Max())
		}
	},
}

func init() {
	RootCmd.AddCommand(createCmd)

	createCmd.Flags().IntP("table-bits", "B", 0, `table_bits, overrides config default`)
	createCmd.Flags().IntP("k", "k", 0, `k-mer length, overrides config default`)
	createCmd.Flags().IntP("w", "w", 0, `modimizer window, overrides config default`)
	createCmd.Flags().Int64P("seed", "s", 0, `hasher seed, overrides config default`)
	createCmd.Flags().StringP("out", "o", "out.mod", `output modset file`)
	createCmd.Flags().BoolP("force", "f", false, `overwrite output if it exists`)
}
