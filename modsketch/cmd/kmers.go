package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nanoreads/modsketch/modsketch/seqio"
)

var kmersCmd = &cobra.Command{
	Use:   "kmers <code> <k>",
	Short: "Decode a packed k-mer code to its base string (debug)",
	Long: `Decode a packed k-mer code to its base string (debug)

A thin wrapper over shenwei356/kmers.MustDecode, the same function
the teacher's gen-masks.go uses to print mask k-mers.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := strconv.ParseUint(args[0], 10, 64)
		checkError(errors.Wrap(err, "kmers: parsing code"))
		k, err := strconv.Atoi(args[1])
		checkError(errors.Wrap(err, "kmers: parsing k"))

		log.Info(seqio.DecodeKmerString(code, k))
	},
}

func init() {
	RootCmd.AddCommand(kmersCmd)
}
