// Package layout implements component C7: assembly traversal. From a
// seed mod, it extends a growing contig of reads by majority-voting
// the next mod among the currently active reads, producing an
// ordered Layout of (read_id, start, end, hit_count) records.
package layout

import (
	"sort"

	"github.com/twotwotwo/sorts"
	"gonum.org/v1/gonum/stat"

	"github.com/rdleal/intervalst/interval"

	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

// consistencyWindow bounds how far an individual read's advance may
// drift from the chosen median before it is flagged as a warning.
const consistencyWindow = 10

// Entry is one read's placement in a layout.
type Entry struct {
	ReadID   uint32
	Start    int
	End      int
	HitCount int
	Warned   bool
}

// link is an edge between two non-copy-0 hits (or a read boundary,
// To == 0) within one read. Pos is the absolute position, within
// that read's own coordinate frame, of the link's destination.
type link struct {
	From   uint32
	To     uint32
	ReadID uint32
	Pos    int
}

// Layouter builds the link index for a read set once and serves
// repeated Extend calls against it (one per assembly seed).
type Layouter struct {
	rs    *readset.ReadSet
	links []link
	start map[uint32]int // From -> index of its first link in the sorted slice
}

// Build constructs the sorted link array and per-mod offset index
// over every read in rs. It must be rebuilt if rs's reads change.
func Build(rs *readset.ReadSet) *Layouter {
	var links []link
	for readID := uint32(1); readID < uint32(len(rs.Reads)); readID++ {
		r := &rs.Reads[readID]
		if r.Bad != 0 {
			continue
		}
		links = append(links, readLinks(rs.MS, r, readID)...)
	}

	sorts.Quicksort(byLinkOrder(links))

	start := make(map[uint32]int, len(links))
	for i, l := range links {
		if _, ok := start[l.From]; !ok {
			start[l.From] = i
		}
	}

	return &Layouter{rs: rs, links: links, start: start}
}

// readLinks builds the internal chain and four boundary sentinels
// for one read, skipping copy-0 hits (likely-error mods contribute
// no reliable adjacency information).
func readLinks(ms *modset.Modset, r *readset.Read, readID uint32) []link {
	var hits []uint32
	var pos []int
	p := 0
	for j, h := range r.Hit {
		p += int(r.Dx[j])
		modID, _ := readset.UnpackHit(h)
		if ms.Copy(modID) == modset.Copy0 {
			continue
		}
		hits = append(hits, h)
		pos = append(pos, p)
	}
	if len(hits) == 0 {
		return nil
	}

	out := make([]link, 0, len(hits)+3)
	for i := 0; i+1 < len(hits); i++ {
		out = append(out, link{From: hits[i], To: hits[i+1], ReadID: readID, Pos: pos[i+1]})
	}

	first, last := hits[0], hits[len(hits)-1]
	out = append(out,
		link{From: first, To: 0, ReadID: readID, Pos: 0},
		link{From: last, To: 0, ReadID: readID, Pos: r.Len},
		link{From: flipOrientation(first), To: 0, ReadID: readID, Pos: r.Len},
		link{From: flipOrientation(last), To: 0, ReadID: readID, Pos: 0},
	)
	return out
}

// byLinkOrder sorts links by (From, To, ReadID, Pos), the order Build
// and Extend rely on so that each mod's outgoing edges form one
// contiguous run starting at lo.start[From]. Sorted with
// sorts.Quicksort, a concurrent drop-in for sort.Sort.
type byLinkOrder []link

func (l byLinkOrder) Len() int      { return len(l) }
func (l byLinkOrder) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l byLinkOrder) Less(i, j int) bool {
	a, b := l[i], l[j]
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	if a.ReadID != b.ReadID {
		return a.ReadID < b.ReadID
	}
	return a.Pos < b.Pos
}

func flipOrientation(h uint32) uint32 {
	modID, isForward := readset.UnpackHit(h)
	return readset.PackHit(modID, !isForward)
}

type activeRead struct {
	x         int // current position of `from` within this read
	layoutIdx int
}

// Extend runs the majority-vote extension algorithm from seed mod
// seedModID, in the orientation seedForward. Each Entry's Start and
// End are the lowest and highest positions reached in that read's own
// coordinate frame; anchorOffset is not applied to them. The second
// return value is anchorOffset advanced by every step's chosen d.
func (lo *Layouter) Extend(seedModID uint32, seedForward bool, anchorOffset int) ([]Entry, int) {
	rs := lo.rs
	ms := rs.MS

	active := map[uint32]*activeRead{}
	var entries []Entry
	for _, r := range rs.Inv(seedModID) {
		if rs.Reads[r].Bad != 0 {
			continue
		}
		pos, ok := hitPos(&rs.Reads[r], seedModID)
		if !ok {
			continue
		}
		idx := len(entries)
		entries = append(entries, Entry{ReadID: r, Start: pos, End: pos, HitCount: 1})
		active[r] = &activeRead{x: pos, layoutIdx: idx}
	}

	from := readset.PackHit(seedModID, seedForward)
	offset := anchorOffset

	for len(active) > 0 {
		type vote struct {
			support int
			dMin    int
		}
		votes := map[uint32]*vote{}
		type seen struct {
			readID uint32
			to     uint32
			d      int
		}
		var observed []seen

		start, ok := lo.start[from]
		if !ok {
			break
		}
		for i := start; i < len(lo.links) && lo.links[i].From == from; i++ {
			l := lo.links[i]
			st, ok := active[l.ReadID]
			if !ok {
				continue
			}
			d := l.Pos - st.x
			observed = append(observed, seen{l.ReadID, l.To, d})
			v := votes[l.To]
			if v == nil {
				votes[l.To] = &vote{support: 1, dMin: d}
				continue
			}
			v.support++
			if d < v.dMin {
				v.dMin = d
			}
		}

		var chosenTo uint32
		found := false
		var bestDMin int
		for to, v := range votes {
			if v.support*2 <= len(active) {
				continue
			}
			if !found || v.dMin < bestDMin {
				chosenTo, bestDMin, found = to, v.dMin, true
			}
		}
		if !found {
			break
		}

		var ds []float64
		for _, s := range observed {
			if s.to == chosenTo {
				ds = append(ds, float64(s.d))
			}
		}
		dBest := medianOrExact(ds)

		for _, s := range observed {
			if s.to != chosenTo {
				continue
			}
			st := active[s.readID]
			warn := float64(s.d) < dBest-consistencyWindow || float64(s.d) > dBest+consistencyWindow
			newX := st.x + s.d
			if newX > rs.Reads[s.readID].Len {
				delete(active, s.readID)
				continue
			}
			st.x = newX
			e := &entries[st.layoutIdx]
			e.HitCount++
			if warn {
				e.Warned = true
			}
			if newX > e.End {
				e.End = newX
			}
			if newX < e.Start {
				e.Start = newX
			}
		}

		modID, _ := readset.UnpackHit(chosenTo)
		if chosenTo != 0 && ms.Copy(modID) == modset.Copy1 {
			for _, r := range rs.Inv(modID) {
				if _, already := active[r]; already {
					continue
				}
				if rs.Reads[r].Bad != 0 {
					continue
				}
				pos, ok := hitPos(&rs.Reads[r], modID)
				if !ok {
					continue
				}
				idx := len(entries)
				entries = append(entries, Entry{ReadID: r, Start: pos, End: pos, HitCount: 1})
				active[r] = &activeRead{x: pos, layoutIdx: idx}
			}
		}

		offset += int(dBest)
		from = chosenTo
		if chosenTo == 0 {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
	return entries, offset
}

func medianOrExact(ds []float64) float64 {
	if len(ds) == 0 {
		return 0
	}
	sorted := append([]float64(nil), ds...)
	sort.Float64s(sorted)
	agree := true
	for _, d := range sorted[1:] {
		if d != sorted[0] {
			agree = false
			break
		}
	}
	if agree {
		return sorted[0]
	}
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func hitPos(r *readset.Read, modID uint32) (int, bool) {
	p := 0
	for j, h := range r.Hit {
		p += int(r.Dx[j])
		id, _ := readset.UnpackHit(h)
		if id == modID {
			return p, true
		}
	}
	return 0, false
}

// SpanIndex answers "which reads cover contig coordinate pos" queries
// over a finished layout, using an interval tree keyed on each read's
// [start, end) span.
type SpanIndex struct {
	tree *interval.SearchTree[int, uint32]
}

// NewSpanIndex builds a SpanIndex over a layout produced by Extend.
func NewSpanIndex(entries []Entry) *SpanIndex {
	cmp := func(a, b int) int { return a - b }
	tree := interval.NewSearchTree[int, uint32](cmp)
	for _, e := range entries {
		tree.Insert(e.Start, e.End, e.ReadID)
	}
	return &SpanIndex{tree: tree}
}

// Covers reports whether any read's span intersects [pos, pos+1).
func (s *SpanIndex) Covers(pos int) bool {
	_, ok := s.tree.AnyIntersection(pos, pos+1)
	return ok
}
