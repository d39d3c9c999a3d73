package iterator

import "github.com/nanoreads/modsketch/modsketch/hash"

// Minimizer streams the minimum canonical hash k-mer in every
// sliding window of w consecutive k-mers. Ties within a window are
// broken toward the leftmost occurrence. It is kept for the
// reference-mapping path; the modimizer is the primary core iterator.
type Minimizer struct {
	hits []Hit
	i    int
}

// NewMinimizer builds a minimizer iterator over seq using h.K as the
// k-mer size and h.W as the window size. The sequence is scanned
// eagerly with a monotonic deque so that, for any window of length
// >= W starting within the sequence, exactly one minimum is emitted.
func NewMinimizer(h *hash.Hasher, seq []byte) *Minimizer {
	k, w := h.K, h.W
	n := len(seq) - k + 1
	if n <= 0 {
		return &Minimizer{}
	}

	hashes := make([]uint64, n)
	kmers := make([]uint64, n)
	isF := make([]bool, n)

	var fwd, rev uint64
	for i := 0; i < k; i++ {
		fwd = h.RollForward(fwd, seq[i])
		rev = h.RollReverse(rev, seq[i])
	}
	for p := 0; p < n; p++ {
		if p > 0 {
			fwd = h.RollForward(fwd, seq[p+k-1])
			rev = h.RollReverse(rev, seq[p+k-1])
		}
		hf, hr := h.Canonical(fwd), h.Canonical(rev)
		if hf < hr {
			hashes[p], kmers[p], isF[p] = hf, fwd, true
		} else {
			hashes[p], kmers[p], isF[p] = hr, rev, false
		}
	}

	// monotonic deque of indices with strictly increasing hash
	// front-to-back; ties keep the earlier (leftmost) index so it
	// wins when the window slides past it.
	deque := make([]int, 0, w)
	var hits []Hit
	lastEmitted := -1
	for r := 0; r < n; r++ {
		for len(deque) > 0 && hashes[deque[len(deque)-1]] > hashes[r] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, r)
		for deque[0] <= r-w {
			deque = deque[1:]
		}
		if r >= w-1 {
			m := deque[0]
			if m != lastEmitted {
				hits = append(hits, Hit{Kmer: kmers[m], Pos: m, IsForward: isF[m]})
				lastEmitted = m
			}
		}
	}

	return &Minimizer{hits: hits}
}

// Next returns the next minimizer hit and true, or a zero Hit and
// false once exhausted.
func (m *Minimizer) Next() (Hit, bool) {
	if m.i >= len(m.hits) {
		return Hit{}, false
	}
	h := m.hits[m.i]
	m.i++
	return h, true
}
