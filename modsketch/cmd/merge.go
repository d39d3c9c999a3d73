package cmd

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/nanoreads/modsketch/modsketch/modset"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <target.mod> <other.mod>",
	Short: "Merge another modset into the target in place",
	Long: `Merge another modset into the target in place

Fails (without mutating the target) when the two modsets' hashers
differ, per spec §7 "Incompatible merge" - the only non-fatal failure
core exposes.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		targetPath, otherPath := expandPath(args[0]), expandPath(args[1])

		target := loadModset(targetPath)
		other := loadModset(otherPath)

		ok, err := target.Merge(other)
		if !ok {
			checkError(errors.Wrapf(err, "merge: %s into %s", otherPath, targetPath))
		}

		f, err := xopen.Wopen(targetPath)
		checkError(errors.Wrapf(err, "merge: rewriting %s", targetPath))
		defer f.Close()
		checkError(errors.Wrap(target.Write(f), "merge: writing modset"))

		if opt.Verbose {
			log.Infof("merged %s into %s: %d mods", otherPath, targetPath, target.Max())
		}
	},
}

func loadModset(path string) *modset.Modset {
	f, err := xopen.Ropen(path)
	checkError(errors.Wrapf(err, "opening %s", path))
	defer f.Close()
	ms, err := modset.Read(f)
	checkError(errors.Wrapf(err, "loading modset %s", path))
	return ms
}

func init() {
	RootCmd.AddCommand(mergeCmd)
}
