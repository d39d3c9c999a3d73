// Package overlap implements component C5: given a query read, use
// the read set's inverse index to find reads sharing copy-1 mod ids,
// and classify each candidate by orientation, order and containment.
package overlap

import (
	"github.com/twotwotwo/sorts"

	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

// Overlap is one classified candidate against the query read passed
// to Engine.Find.
type Overlap struct {
	ReadID     uint32
	SharedHits int
	IsPlus     bool
	Contained  bool
	NBadOrder  int
	NBadFlip   int
}

// Engine holds scratch state sized once against a read set and reused
// across queries, per the complexity note in the design: per-query
// allocation of the hit/read maps would defeat the whole approach.
type Engine struct {
	rs *readset.ReadSet

	omapIdx []int32 // read id -> 1-based index into cand, 0 = unseen
	hmap    []int32 // mod id -> 1-based hit index in x, 0 = unseen
	xpos    []int

	cand         []candidate
	touchedReads []uint32
	touchedMods  []uint32
}

type candidate struct {
	readID     uint32
	sharedHits int
}

// candidatesBySharedHits sorts candidates descending by shared-hit
// count via sorts.Quicksort (a concurrent drop-in for sort.Sort).
type candidatesBySharedHits []candidate

func (c candidatesBySharedHits) Len() int          { return len(c) }
func (c candidatesBySharedHits) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c candidatesBySharedHits) Less(i, j int) bool { return c[i].sharedHits > c[j].sharedHits }

// NewEngine allocates scratch state sized for rs. It must be rebuilt
// if rs grows afterward.
func NewEngine(rs *readset.ReadSet) *Engine {
	return &Engine{
		rs:      rs,
		omapIdx: make([]int32, len(rs.Reads)),
		hmap:    make([]int32, rs.MS.Max()+1),
	}
}

// Find runs the overlap algorithm for query read xID, returning
// candidates (excluding xID itself) with shared-hit count >= 3,
// sorted by that count descending. If none survive, it sets
// x.BadNoMatch (and BadLowHit/BadLowCopy1 as appropriate) on the
// query read itself.
func (e *Engine) Find(xID uint32) []Overlap {
	rs := e.rs
	ms := rs.MS
	x := &rs.Reads[xID]

	e.cand = e.cand[:0]
	e.touchedReads = e.touchedReads[:0]
	e.touchedMods = e.touchedMods[:0]

	if need := len(x.Hit) + 1; cap(e.xpos) < need {
		e.xpos = make([]int, need)
	} else {
		e.xpos = e.xpos[:need]
	}
	xpos := e.xpos
	pos := 0
	for j, packed := range x.Hit {
		pos += int(x.Dx[j])
		xpos[j+1] = pos

		modID, _ := readset.UnpackHit(packed)
		if ms.Copy(modID) != modset.Copy1 {
			continue
		}
		if e.hmap[modID] != 0 {
			x.Bad |= readset.BadRepeat
			continue
		}
		e.hmap[modID] = int32(j + 1)
		e.touchedMods = append(e.touchedMods, modID)

		for _, y := range rs.Inv(modID) {
			if y == xID {
				continue
			}
			idx := e.omapIdx[y]
			if idx == 0 {
				e.cand = append(e.cand, candidate{readID: y})
				idx = int32(len(e.cand))
				e.omapIdx[y] = idx
				e.touchedReads = append(e.touchedReads, y)
			}
			e.cand[idx-1].sharedHits++
		}
	}

	sorts.Quicksort(candidatesBySharedHits(e.cand))

	var out []Overlap
	for _, c := range e.cand {
		if c.sharedHits < 3 {
			break
		}
		y := &rs.Reads[c.readID]
		if y.Bad != 0 {
			continue
		}
		out = append(out, e.classify(x, y, c, xpos))
	}

	if len(out) == 0 {
		x.Bad |= readset.BadNoMatch
		if x.NHit < 10 {
			x.Bad |= readset.BadLowHit
		} else if x.NCopy[modset.Copy1] < 10 {
			x.Bad |= readset.BadLowCopy1
		}
	}

	for _, id := range e.touchedReads {
		e.omapIdx[id] = 0
	}
	for _, m := range e.touchedMods {
		e.hmap[m] = 0
	}

	return out
}

func (e *Engine) classify(x, y *readset.Read, c candidate, xpos []int) Overlap {
	nPlus, nMinus := 0, 0
	for _, packed := range y.Hit {
		modID, isFY := readset.UnpackHit(packed)
		hj := e.hmap[modID]
		if hj == 0 {
			continue
		}
		_, isFX := readset.UnpackHit(x.Hit[hj-1])
		if isFX == isFY {
			nPlus++
		} else {
			nMinus++
		}
	}
	isPlus := nPlus >= nMinus

	yPos := 0
	var lastDiff, lastIhx int
	haveContainment, haveLast := false, false
	isContained := false
	nBadOrder := 0

	for j, packed := range y.Hit {
		yPos += int(y.Dx[j])
		modID, _ := readset.UnpackHit(packed)
		hj := e.hmap[modID]
		if hj == 0 {
			continue
		}
		ihx := int(hj) - 1

		var diff int
		if isPlus {
			diff = xpos[ihx+1] - yPos
		} else {
			diff = x.Len - xpos[ihx+1] - yPos
		}

		if !haveContainment && diff < 0 {
			isContained = true
			haveContainment = true
		}
		lastDiff = diff

		if haveLast {
			bad := (isPlus && ihx < lastIhx) || (!isPlus && ihx > lastIhx)
			if bad {
				nBadOrder++
				if isPlus {
					nPlus--
				} else {
					nMinus--
				}
			}
		}
		lastIhx = ihx
		haveLast = true
	}
	if isContained && x.Len-lastDiff > y.Len {
		isContained = false
	}

	nBadFlip := nMinus
	if !isPlus {
		nBadFlip = nPlus
	}

	return Overlap{
		ReadID:     c.readID,
		SharedHits: c.sharedHits,
		IsPlus:     isPlus,
		Contained:  isContained,
		NBadOrder:  nBadOrder,
		NBadFlip:   nBadFlip,
	}
}
