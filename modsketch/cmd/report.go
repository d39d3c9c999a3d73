package cmd

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <modset.mod>...",
	Short: "Print summary statistics for one or more modsets",
	Long: `Print summary statistics for one or more modsets

Mirrors the C source's modsetSummary (original_source/modset.c):
table occupancy, a depth histogram's total/average/N50, and
per-copy-class counts - "report multi-source depths" in spec §6.
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			path := expandPath(arg)
			ms := loadModset(path)
			s := ms.Summarize()
			log.Infof("%s: table_bits=%d size=%d entries=%d total_count=%d avg_depth=%.1f n50_depth=%d copy0=%d copy1=%d copy2=%d copyM=%d saturated=%d",
				path, s.TableBits, s.TableSize, s.NumEntries, s.TotalCount, s.AverageDepth, s.N50Depth,
				s.CopyCounts[0], s.CopyCounts[1], s.CopyCounts[2], s.CopyCounts[3], s.Saturated)
		}
	},
}

func init() {
	RootCmd.AddCommand(reportCmd)
}
