// Package cmd is the CLI surface named in spec §6: an external
// collaborator, not core. It accumulates state across subcommands
// against a single on-disk modset (and its sibling read set),
// following the teacher's subcommand-per-file cobra layout and its
// go-logging + go-colorable logger wiring.
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	logging "github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("modsketch")

func setupLog(logFile string, quiet bool) {
	var backend logging.Backend
	if logFile != "" {
		f, err := os.Create(logFile)
		checkError(err)
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(colorable.NewColorableStderr(), "", 0)
	}

	format := logging.MustStringFormatter(`%{color}[%{level:.4s}]%{color:reset} %{message}`)
	formatted := logging.NewBackendFormatter(backend, format)

	level := logging.INFO
	if quiet {
		level = logging.ERROR
	}
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// RootCmd is the modsketch root command; every subcommand file
// registers itself onto it from an init() in that file.
var RootCmd = &cobra.Command{
	Use:   "modsketch",
	Short: "A sparse k-mer modset index and read-overlap toolkit",
	Long: `modsketch - sparse k-mer modset index, read-set builder and
overlap/layout toolkit for long reads.

`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLog(getFlagString(cmd, "log-file"), getFlagBool(cmd, "quiet"))
	},
}

// Execute runs the root command; main.go's sole job is to call this.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", `TOML file of default build parameters`)
	RootCmd.PersistentFlags().IntP("threads", "j", 0, `number of CPUs to use (0 for all cores)`)
	RootCmd.PersistentFlags().StringP("log-file", "", "", `log to this file instead of stderr`)
	RootCmd.PersistentFlags().BoolP("quiet", "", false, `only log errors`)
}
