package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// Options carries the global flags every subcommand reads, mirroring
// getOptions(cmd) in the teacher's cmd/util.go.
type Options struct {
	NumCPUs int
	Verbose bool
	LogFile string
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),
		LogFile: getFlagString(cmd, "log-file"),
	}
}

// checkError is the top-level fatal-error sink every subcommand funnels
// into: the core reports parameter/capacity/corruption errors as plain
// Go errors (spec §7), and cmd/ is where they become a log line and a
// nonzero exit.
func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	p, err := homedir.Expand(path)
	checkError(errors.Wrapf(err, "expanding path %s", path))
	return p
}

func mustNotExist(path string, force bool) {
	if path == "" {
		return
	}
	exists, err := pathutil.Exists(path)
	checkError(errors.Wrapf(err, "checking %s", path))
	if exists && !force {
		checkError(fmt.Errorf("%s already exists, use --force to overwrite", path))
	}
}

func getFlagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	checkError(errors.Wrapf(err, "flag --%s", name))
	return v
}

func getFlagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	checkError(errors.Wrapf(err, "flag --%s", name))
	return v
}

func getFlagInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	checkError(errors.Wrapf(err, "flag --%s", name))
	return v
}

func getFlagNonNegativeInt(cmd *cobra.Command, name string) int {
	v := getFlagInt(cmd, name)
	if v < 0 {
		checkError(fmt.Errorf("flag --%s should be >= 0", name))
	}
	return v
}

func getFlagInt64(cmd *cobra.Command, name string) int64 {
	v, err := cmd.Flags().GetInt64(name)
	checkError(errors.Wrapf(err, "flag --%s", name))
	return v
}

func getFlagStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	checkError(errors.Wrapf(err, "flag --%s", name))
	return v
}
