// Package iterator streams k-mers across a 2-bit-encoded sequence
// (component C2): the rolling canonical modimizer iterator is the
// sparse, error-tolerant k-mer selector used to build modsets and
// read sets; the minimizer iterator is a secondary variant kept for
// reference mapping.
package iterator

import "github.com/nanoreads/modsketch/modsketch/hash"

// Hit is one emitted k-mer: its raw 2k-bit value in canonical
// orientation, the 0-based index of the first base of that k-mer in
// the input sequence, and whether the canonical orientation is
// forward.
type Hit struct {
	Kmer      uint64
	Pos       int
	IsForward bool
}

// Modimizer streams canonical k-mers whose salt-permuted hash is 0
// mod w. It is lazy, finite and non-restartable; the backing sequence
// must outlive the iterator.
type Modimizer struct {
	h   *hash.Hasher
	seq []byte

	i   int // index of the next unconsumed base in seq
	pos int // start position of the current/candidate k-mer

	fwd, rev uint64

	curKmer uint64
	curIsF  bool

	done bool
}

// NewModimizer creates a modimizer iterator over seq (bases in
// {0,1,2,3}) using h. If seq is shorter than h.K the iterator is
// immediately empty.
func NewModimizer(h *hash.Hasher, seq []byte) *Modimizer {
	m := &Modimizer{h: h, seq: seq}
	if len(seq) < h.K {
		m.done = true
		return m
	}

	var fwd, rev uint64
	for i := 0; i < h.K; i++ {
		fwd = h.RollForward(fwd, seq[i])
		rev = h.RollReverse(rev, seq[i])
	}
	m.i = h.K
	m.fwd, m.rev = fwd, rev

	if !m.seekHit() {
		m.done = true
	}
	return m
}

// seekHit advances fwd/rev/i/pos until the canonical hash is 0 mod w
// or the sequence is exhausted, recording the hit in cur*. Returns
// false if the sequence ran out before a hit was found.
func (m *Modimizer) seekHit() bool {
	h := m.h
	for {
		hf, hr := h.Canonical(m.fwd), h.Canonical(m.rev)
		var chash, kmer uint64
		var isF bool
		if hf < hr {
			chash, kmer, isF = hf, m.fwd, true
		} else {
			chash, kmer, isF = hr, m.rev, false
		}

		if chash%uint64(h.W) == 0 {
			m.curKmer, m.curIsF = kmer, isF
			return true
		}

		if m.i >= len(m.seq) {
			return false
		}
		m.fwd = h.RollForward(m.fwd, m.seq[m.i])
		m.rev = h.RollReverse(m.rev, m.seq[m.i])
		m.i++
		m.pos++
	}
}

// Next returns the next (kmer, position, isForward) triple and true,
// or a zero Hit and false once the iterator is exhausted.
func (m *Modimizer) Next() (Hit, bool) {
	if m.done {
		return Hit{}, false
	}

	hit := Hit{Kmer: m.curKmer, Pos: m.pos, IsForward: m.curIsF}

	if m.i >= len(m.seq) {
		m.done = true
		return hit, true
	}

	m.fwd = m.h.RollForward(m.fwd, m.seq[m.i])
	m.rev = m.h.RollReverse(m.rev, m.seq[m.i])
	m.i++
	m.pos++

	if !m.seekHit() {
		m.done = true
	}
	return hit, true
}
