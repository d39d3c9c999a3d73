package seqio

import "github.com/shenwei356/kmers"

// DecodeKmerString renders a packed 2-bit k-mer code back to its base
// string, for the `kmers` debug subcommand (§6).
// Mirrors gen-masks.go's use of kmers.MustDecode to print mask k-mers.
func DecodeKmerString(code uint64, k int) string {
	return string(kmers.MustDecode(code, k))
}
