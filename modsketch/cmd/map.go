package cmd

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/nanoreads/modsketch/modsketch/overlap"
	"github.com/nanoreads/modsketch/modsketch/readset"
	"github.com/nanoreads/modsketch/modsketch/seqio"
)

// mapCmd is the reference-mapping external collaborator named in
// SPEC_FULL's supplemented features: it ingests a reference sequence
// as a synthetic read against the same modset, then reports every
// read's shared copy-1 mods against it in reference coordinates via
// overlap.PairwiseReport - debugging only, never part of the core
// contract.
var mapCmd = &cobra.Command{
	Use:   "map <modset.mod> <readset.readset> <reference.fasta>",
	Short: "Report reads' shared mods against a reference sequence (debug)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		modPath, readsetPath, refPath := expandPath(args[0]), expandPath(args[1]), expandPath(args[2])

		ms := loadModset(modPath)

		rf, err := xopen.Ropen(readsetPath)
		checkError(errors.Wrapf(err, "map: opening %s", readsetPath))
		rs, err := readset.Read(rf, ms)
		rf.Close()
		checkError(errors.Wrap(err, "map: loading read set"))
		rs.InvBuild()

		var refID uint32
		err = seqio.ReadAll(refPath, func(rec seqio.Record) error {
			if refID != 0 {
				return nil // only the first reference record is mapped against
			}
			refID = rs.AddRead(rec.Seq2bit)
			return nil
		})
		checkError(errors.Wrapf(err, "map: reading reference %s", refPath))
		rs.InvBuild()

		for readID := uint32(1); readID < uint32(len(rs.Reads)); readID++ {
			if readID == refID {
				continue
			}
			shared := overlap.PairwiseReport(rs, readID, refID)
			if len(shared) == 0 {
				continue
			}
			log.Infof("read %d: %d mods shared with reference", readID, len(shared))
			for _, s := range shared {
				log.Infof("  mod %d: read@%d(%v) ref@%d(%v)", s.ModID, s.XPos, s.XIsFwd, s.YPos, s.YIsFwd)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(mapCmd)
}
