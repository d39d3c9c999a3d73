package readset

import (
	"github.com/nanoreads/modsketch/modsketch/iterator"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/util"
)

// ReadSet owns a modset and the reads ingested against it, plus the
// inverse index built from their hits. Read id 0 is a burned
// sentinel: real reads start at id 1.
type ReadSet struct {
	MS    *modset.Modset
	Reads []Read

	TotalHit uint64

	invStart   []uint32 // len = max+2; invStart[m]..invStart[m+1] bounds mod m's slice
	invBacking []uint32
}

// New creates an empty read set over ms.
func New(ms *modset.Modset) *ReadSet {
	return &ReadSet{MS: ms, Reads: make([]Read, 1)}
}

// AddRead runs the modimizer iterator over a 2-bit-encoded sequence,
// resolving each hit against the modset with find-only semantics (the
// modset must already be built), and appends the resulting Read. It
// returns the new read's id.
func (rs *ReadSet) AddRead(seq []byte) uint32 {
	h := rs.MS.Hasher
	it := iterator.NewModimizer(h, seq)

	r := Read{Len: len(seq)}
	lastPos := 0
	for {
		hit, ok := it.Next()
		if !ok {
			break
		}
		chash := h.Canonical(hit.Kmer)
		id, _ := rs.MS.FindOrAdd(chash, false)
		if id == 0 {
			r.NMiss++
			continue
		}
		r.Hit = append(r.Hit, PackHit(id, hit.IsForward))
		r.Dx = append(r.Dx, util.ClampU16(hit.Pos-lastPos))
		lastPos = hit.Pos
		rs.MS.IncrDepth(id)
	}
	r.NHit = len(r.Hit)

	id := uint32(len(rs.Reads))
	rs.Reads = append(rs.Reads, r)
	return id
}

// InvBuild computes the inverse index (mod id -> containing read ids)
// and each read's n_copy[0..3] tally. It must run once, after every
// read has been ingested and before any overlap query.
func (rs *ReadSet) InvBuild() {
	ms := rs.MS
	max := ms.Max()

	starts := make([]uint32, max+2)
	var total uint32
	for i := uint32(1); i <= max; i++ {
		starts[i] = total
		if ms.Depth(i) != modset.DepthSaturated {
			total += uint32(ms.Depth(i))
		}
	}
	starts[max+1] = total
	rs.TotalHit = uint64(total)

	backing := make([]uint32, total)
	cursor := make([]uint32, max+1)
	copy(cursor, starts[:max+1])

	for readID := uint32(1); readID < uint32(len(rs.Reads)); readID++ {
		r := &rs.Reads[readID]
		r.NCopy = [4]int{}
		for _, packed := range r.Hit {
			modID, _ := UnpackHit(packed)
			r.NCopy[ms.Copy(modID)]++
			if ms.Depth(modID) == modset.DepthSaturated {
				continue
			}
			backing[cursor[modID]] = readID
			cursor[modID]++
		}
	}

	rs.invStart = starts
	rs.invBacking = backing
}

// Inv returns the (possibly empty) list of read ids containing mod
// id m, with multiplicity. It returns nil for a saturated mod, whose
// list was omitted from the index by design.
func (rs *ReadSet) Inv(m uint32) []uint32 {
	if rs.invStart == nil || m+1 >= uint32(len(rs.invStart)) {
		return nil
	}
	if rs.MS.Depth(m) == modset.DepthSaturated {
		return nil
	}
	return rs.invBacking[rs.invStart[m]:rs.invStart[m+1]]
}
