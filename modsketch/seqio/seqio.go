// Package seqio is the external-collaborator adaptor named in spec §6
// ("Input sequences"): it turns on-disk FASTA/FASTQ records into the
// (id, seq_2bit, seq_len, optional_quality) contract the core
// packages (hash, iterator, modset, readset, overlap, badness,
// layout, cleaner) consume. None of those packages import seqio or
// shenwei356/bio; the dependency runs one way, from this adaptor
// inward.
package seqio

// Record is one ingested sequence: a stable identifier, its bases
// 2-bit-encoded per spec §6 (A=0, C=1, G=2, T=3; any ambiguous base
// maps to 0), and optional per-base Phred quality (nil for FASTA
// input or when quality is not needed).
type Record struct {
	ID      string
	Seq2bit []byte
	Len     int
	Qual    []byte
}

// base2bit maps an ASCII base letter to its 2-bit code. Anything not
// recognized as A/C/G/T (case-insensitive) - N, IUPAC ambiguity
// codes, gaps - maps to 0, per spec §6.
var base2bit [256]byte

func init() {
	for i := range base2bit {
		base2bit[i] = 0
	}
	base2bit['A'], base2bit['a'] = 0, 0
	base2bit['C'], base2bit['c'] = 1, 1
	base2bit['G'], base2bit['g'] = 2, 2
	base2bit['T'], base2bit['t'] = 3, 3
}

// Encode2bit converts raw ASCII bases into the core's 2-bit alphabet.
func Encode2bit(raw []byte) []byte {
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = base2bit[b]
	}
	return out
}

// bit2base is the inverse of base2bit's A/C/G/T mapping, used only to
// render 2-bit sequences back to text (debug output, test fixtures).
var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// Decode2bit renders a 2-bit-encoded sequence back to ASCII bases.
// Lossy for any base that was folded to 0 from something other than A.
func Decode2bit(codes []byte) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = bit2base[c&3]
	}
	return out
}
