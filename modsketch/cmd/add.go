package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/iafan/cwalk"
	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/nanoreads/modsketch/modsketch/iterator"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
	"github.com/nanoreads/modsketch/modsketch/seqio"
)

// collectFiles resolves -i/-I/-l into a flat list of sequence files:
// explicit files, every matching file under a directory (concurrent
// walk via cwalk, as gen-masks.go does for genome collections), or
// every path named in a file-of-filenames (read with breader, as the
// teacher's list-driven subcommands do).
func collectFiles(files []string, inDir, fileList string, pattern *regexp.Regexp, threads int) []string {
	out := append([]string(nil), files...)

	if inDir != "" {
		ch := make(chan string, threads)
		done := make(chan int)
		go func() {
			for f := range ch {
				out = append(out, f)
			}
			done <- 1
		}()
		cwalk.NumWorkers = threads
		err := cwalk.WalkWithSymlinks(inDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && pattern.MatchString(info.Name()) {
				ch <- filepath.Join(inDir, path)
			}
			return nil
		})
		close(ch)
		<-done
		checkError(errors.Wrapf(err, "add: walking %s", inDir))
	}

	if fileList != "" {
		reader, err := breader.NewBufferedReader(fileList, threads, 100, func(line string) (interface{}, error) {
			return line, nil
		})
		checkError(errors.Wrapf(err, "add: reading file list %s", fileList))
		for chunk := range reader.Ch {
			checkError(errors.Wrap(chunk.Err, "add: reading file list"))
			for _, d := range chunk.Data {
				out = append(out, d.(string))
			}
		}
	}

	return out
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add sequence files to a modset and its read set",
	Long: `Add sequence files to a modset and its read set

Grows the table (find-or-add with isAdd=true) and ingests each record
as a Read against it (find-only), the two phases spec §4.3/§4.4
describe for table construction and read ingestion respectively.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		modPath := expandPath(getFlagString(cmd, "modset"))
		readsetOut := expandPath(getFlagString(cmd, "readset-out"))
		inDir := expandPath(getFlagString(cmd, "in-dir"))
		fileList := expandPath(getFlagString(cmd, "file-list"))
		pattern, err := regexp.Compile(getFlagString(cmd, "pattern"))
		checkError(errors.Wrap(err, "add: compiling --pattern"))

		files := collectFiles(args, inDir, fileList, pattern, opt.NumCPUs)
		if len(files) == 0 {
			checkError(errors.New("add: no input sequence files (use args, -I or -l)"))
		}

		ms := loadModset(modPath)

		var pbs *mpb.Progress
		var bar *mpb.Bar
		if opt.Verbose {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(files)),
				mpb.PrependDecorators(
					decor.Name("adding files: "),
					decor.CountersNoUnit("%d / %d"),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: "),
					decor.EwmaETA(decor.ET_STYLE_GO, 20),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)
		}

		// phase 1: grow the table over every file before any read is
		// ingested, so later reads see the final mod universe.
		for _, file := range files {
			start := time.Now()
			checkError(errors.Wrapf(growTable(ms, file), "add: scanning %s", file))
			if bar != nil {
				bar.EwmaIncrBy(1, time.Since(start))
			}
		}
		ms.Pack()

		rs := readset.New(ms)
		var nSeqs int
		for _, file := range files {
			err := seqio.ReadAll(file, func(rec seqio.Record) error {
				rs.AddRead(rec.Seq2bit)
				nSeqs++
				return nil
			})
			checkError(errors.Wrapf(err, "add: ingesting %s", file))
		}
		rs.InvBuild()

		mustNotExist(readsetOut, getFlagBool(cmd, "force"))
		out, err := xopen.Wopen(readsetOut)
		checkError(errors.Wrapf(err, "add: opening %s", readsetOut))
		defer out.Close()
		checkError(errors.Wrap(rs.Write(out), "add: writing read set"))

		outMod, err := xopen.Wopen(modPath)
		checkError(errors.Wrapf(err, "add: rewriting %s", modPath))
		defer outMod.Close()
		checkError(errors.Wrap(ms.Write(outMod), "add: writing modset"))

		if opt.Verbose {
			log.Infof("added %d sequences from %d files, %d mods, %d total hits", nSeqs, len(files), ms.Max(), rs.TotalHit)
		}
	},
}

func growTable(ms *modset.Modset, file string) error {
	return seqio.ReadAll(file, func(rec seqio.Record) error {
		return growOverSeq(ms, rec.Seq2bit)
	})
}

func growOverSeq(ms *modset.Modset, seq []byte) error {
	h := ms.Hasher
	it := iterator.NewModimizer(h, seq)
	for {
		hit, ok := it.Next()
		if !ok {
			return nil
		}
		chash := h.Canonical(hit.Kmer)
		if _, err := ms.FindOrAdd(chash, true); err != nil {
			return err
		}
	}
}

func init() {
	RootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("modset", "m", "", `modset file to grow`)
	addCmd.Flags().StringP("readset-out", "r", "out.readset", `output read-set file`)
	addCmd.Flags().StringP("in-dir", "I", "", `directory of sequence files to walk`)
	addCmd.Flags().StringP("file-list", "l", "", `file listing sequence file paths, one per line`)
	addCmd.Flags().StringP("pattern", "p", `\.(fa|fasta|fq|fastq)(\.gz)?$`, `file name pattern used with --in-dir`)
	addCmd.Flags().BoolP("force", "f", false, `overwrite read-set output if it exists`)
}
