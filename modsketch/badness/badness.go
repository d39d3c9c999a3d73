// Package badness implements component C6: three-pass badness
// labeling over a read set's overlaps, and per-read containment
// selection.
package badness

import (
	"github.com/nanoreads/modsketch/modsketch/overlap"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

const maxPartners = 10

type perRead struct {
	partners []uint32 // bounded to maxPartners
	count    int      // uncapped total bad-overlap count
}

// Classify runs the three-pass badness labeling described in the
// design: reads with many bad overlap partners are flagged
// badOrder10 and pruned from their partners' lists; reads left with
// a couple of surviving bad partners are flagged badOrder1; any
// remaining singleton bad partner is swept up in a final pass.
func Classify(rs *readset.ReadSet, eng *overlap.Engine) {
	n := uint32(len(rs.Reads))
	info := make([]perRead, n)

	for x := uint32(1); x < n; x++ {
		for _, o := range eng.Find(x) {
			if o.NBadOrder == 0 && o.NBadFlip == 0 {
				continue
			}
			info[x].count++
			if len(info[x].partners) < maxPartners {
				info[x].partners = append(info[x].partners, o.ReadID)
			}
		}
	}

	clear := func(x uint32) {
		for _, y := range info[x].partners {
			info[y].count--
			p := info[y].partners
			for i, id := range p {
				if id == x {
					info[y].partners = append(p[:i], p[i+1:]...)
					break
				}
			}
		}
		info[x].partners = nil
	}

	for x := uint32(1); x < n; x++ {
		if info[x].count >= 10 {
			rs.Reads[x].Bad |= readset.BadOrder10
			clear(x)
		}
	}

	for x := uint32(1); x < n; x++ {
		if rs.Reads[x].Bad&readset.BadOrder10 != 0 {
			continue
		}
		if info[x].count >= 2 {
			rs.Reads[x].Bad |= readset.BadOrder1
			clear(x)
		}
	}

	for x := uint32(1); x < n; x++ {
		b := rs.Reads[x].Bad
		if b&(readset.BadOrder10|readset.BadOrder1) != 0 {
			continue
		}
		if info[x].count >= 1 {
			rs.Reads[x].Bad |= readset.BadOrder1
		}
	}
}

// Contain records, for each non-bad read, the id of the largest
// (by shared-hit count) overlap candidate that contains it, or 0.
func Contain(rs *readset.ReadSet, eng *overlap.Engine) {
	for x := uint32(1); x < uint32(len(rs.Reads)); x++ {
		if rs.Reads[x].Bad != 0 {
			continue
		}
		var best uint32
		bestShared := -1
		for _, o := range eng.Find(x) {
			if !o.Contained {
				continue
			}
			if o.SharedHits > bestShared {
				bestShared = o.SharedHits
				best = o.ReadID
			}
		}
		rs.Reads[x].Contained = best
	}
}
