package cmd

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune <modset.mod>",
	Short: "Rebuild a modset keeping only mods within a depth band",
	Long: `Rebuild a modset keeping only mods within a depth band

Renumbers surviving mods densely starting at 1, preserving relative
order (modset.DepthPrune, spec §4.3).
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		path := expandPath(args[0])

		dmin := uint16(getFlagNonNegativeInt(cmd, "min-depth"))
		dmax := uint16(getFlagNonNegativeInt(cmd, "max-depth"))

		ms := loadModset(path)
		before := ms.Max()
		ms.DepthPrune(dmin, dmax)
		ms.Pack()

		f, err := xopen.Wopen(path)
		checkError(errors.Wrapf(err, "prune: rewriting %s", path))
		defer f.Close()
		checkError(errors.Wrap(ms.Write(f), "prune: writing modset"))

		if opt.Verbose {
			log.Infof("pruned %s: %d -> %d mods (depth in [%d, %d))", path, before, ms.Max(), dmin, dmax)
		}
	},
}

func init() {
	RootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntP("min-depth", "", 0, `minimum depth to keep`)
	pruneCmd.Flags().IntP("max-depth", "", 0, `depth upper bound (exclusive), 0 for unbounded`)
}
