// Package hash implements the canonical k-mer hasher (component C1):
// a salt-derived odd multiplier used to rank a k-mer against its
// reverse complement, plus the reverse-complement pattern table used
// by rolling iterators.
package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/zeebo/wyhash"
)

// Magic is the 8-byte header written before a serialized Hasher.
var Magic = [8]byte{'S', 'Q', 'H', 'S', 'H', 'v', '2', 0}

// MinK and MaxK bound the supported k-mer length.
const (
	MinK = 1
	MaxK = 31
)

// Hasher computes canonical 64-bit hashes of k-mers and holds the
// reverse-complement pattern table used to roll a hash across a
// sequence. It is immutable after construction.
type Hasher struct {
	Seed   int64
	K      int
	W      int
	Mask   uint64
	Shift1 uint
	Factor1 uint64

	// PatternRC[b] places (3-b) in the high 2 bits of the rolling
	// reverse-complement hash, for base b in {0,1,2,3}.
	PatternRC [4]uint64
}

// New builds a Hasher for k-mer size k, modimizer window w, and seed.
// k must be in [1,31] and w must be positive.
func New(k, w int, seed int64) (*Hasher, error) {
	if k < MinK || k > MaxK {
		return nil, errors.Errorf("hash: k %d must be between %d and %d", k, MinK, MaxK)
	}
	if w < 1 {
		return nil, errors.Errorf("hash: w %d must be positive", w)
	}

	h := &Hasher{
		Seed:   seed,
		K:      k,
		W:      w,
		Mask:   (uint64(1) << uint(2*k)) - 1,
		Shift1: uint(64 - 2*k),
	}
	h.Factor1 = deriveFactor1(seed)
	for b := uint64(0); b < 4; b++ {
		h.PatternRC[b] = (3 - b) << uint(2*(k-1))
	}
	return h, nil
}

// deriveFactor1 pulls two 32-bit pseudo-random values out of a
// reproducible generator seeded with seed, combines them into one
// 64-bit word, and forces the low bit on so multiplication by it is a
// bijection on the low 2k bits used by Canonical.
func deriveFactor1(seed int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	hi := uint32(wyhash.Hash(buf[:], 1))
	lo := uint32(wyhash.Hash(buf[:], 2))
	return (uint64(hi)<<32 | uint64(lo)) | 1
}

// Canonical returns the salt-permuted hash of a raw k-mer value x.
func (h *Hasher) Canonical(x uint64) uint64 {
	return (x * h.Factor1) >> h.Shift1
}

// RollForward advances a forward rolling hash by one base.
func (h *Hasher) RollForward(cur uint64, base byte) uint64 {
	return ((cur << 2) & h.Mask) | uint64(base)
}

// RollReverse advances a reverse-complement rolling hash by one base.
func (h *Hasher) RollReverse(cur uint64, base byte) uint64 {
	return (cur >> 2) | h.PatternRC[base]
}

// Write serializes the hasher: 8-byte magic, then the fields in
// declaration order, all little-endian.
func (h *Hasher) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return errors.Wrap(err, "hash: write magic")
	}
	fields := []interface{}{
		h.Seed, int64(h.K), int64(h.W), h.Mask, uint64(h.Shift1), h.Factor1, h.PatternRC,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return errors.Wrap(err, "hash: write field")
		}
	}
	return nil
}

// Read deserializes a hasher written by Write, rejecting mismatched
// magic as a corrupt-file error.
func Read(r io.Reader) (*Hasher, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "hash: read magic")
	}
	if magic != Magic {
		return nil, fmt.Errorf("hash: magic mismatch, got %q want %q", magic, Magic)
	}

	var seed, k, w int64
	var mask, shift1, factor1 uint64
	var patternRC [4]uint64
	for _, f := range []interface{}{&seed, &k, &w, &mask, &shift1, &factor1, &patternRC} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, errors.Wrap(err, "hash: read field")
		}
	}
	return &Hasher{
		Seed:      seed,
		K:         int(k),
		W:         int(w),
		Mask:      mask,
		Shift1:    uint(shift1),
		Factor1:   factor1,
		PatternRC: patternRC,
	}, nil
}
