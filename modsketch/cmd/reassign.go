package cmd

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/nanoreads/modsketch/modsketch/modset"
)

// reassignCopy implements the depth-threshold copy-class assignment
// recovered from original_source/modtype.c: below minDepth1 is
// likely-error (copy-0), the unique band is copy-1, the duplicated
// band is copy-2, and anything deeper is multi-copy.
func reassignCopy(d uint16, minDepth1, maxDepth1, maxDepth2 uint16) modset.CopyClass {
	switch {
	case d < minDepth1:
		return modset.Copy0
	case d <= maxDepth1:
		return modset.Copy1
	case d <= maxDepth2:
		return modset.Copy2
	default:
		return modset.CopyM
	}
}

var reassignCmd = &cobra.Command{
	Use:   "reassign <modset.mod>",
	Short: "Reassign copy classes by depth thresholds",
	Long: `Reassign copy classes by depth thresholds

Recovered from the C source's modtype.c, which this distilled spec's
CLI surface names ("reassign copy classes by thresholds") without
specifying the algorithm.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		path := expandPath(args[0])

		minDepth1 := uint16(getFlagNonNegativeInt(cmd, "min-depth1"))
		maxDepth1 := uint16(getFlagNonNegativeInt(cmd, "max-depth1"))
		maxDepth2 := uint16(getFlagNonNegativeInt(cmd, "max-depth2"))

		ms := loadModset(path)
		counts := [4]int{}
		for i := uint32(1); i <= ms.Max(); i++ {
			c := reassignCopy(ms.Depth(i), minDepth1, maxDepth1, maxDepth2)
			ms.SetCopy(i, c)
			counts[c]++
		}

		f, err := xopen.Wopen(path)
		checkError(errors.Wrapf(err, "reassign: rewriting %s", path))
		defer f.Close()
		checkError(errors.Wrap(ms.Write(f), "reassign: writing modset"))

		if opt.Verbose {
			log.Infof("reassigned %s: copy0=%d copy1=%d copy2=%d copyM=%d", path, counts[0], counts[1], counts[2], counts[3])
		}
	},
}

func init() {
	RootCmd.AddCommand(reassignCmd)

	reassignCmd.Flags().Int("min-depth1", 3, `depths below this are copy-class 0 (likely error)`)
	reassignCmd.Flags().Int("max-depth1", 40, `depths up to this are copy-class 1 (unique)`)
	reassignCmd.Flags().Int("max-depth2", 80, `depths up to this are copy-class 2 (duplicated)`)
}
