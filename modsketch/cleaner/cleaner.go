// Package cleaner implements component C8: the per-mod flag cleaner
// (REPEAT/INTERNAL/MINOR annotations) and the linkage-disequilibrium
// tester that demotes unreliable copy-1 mods back to copy-class 0.
package cleaner

import (
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

// Clean runs one pass over every read, annotating mods with REPEAT,
// INTERNAL and MINOR, then rebuilds the inverse index since flag
// changes can ripple into copy-class decisions made elsewhere.
func Clean(rs *readset.ReadSet) {
	ms := rs.MS
	w := uint16(ms.Hasher.W)

	for readID := 1; readID < len(rs.Reads); readID++ {
		r := &rs.Reads[readID]

		seen := map[uint32]int{}
		for _, h := range r.Hit {
			modID, _ := readset.UnpackHit(h)
			seen[modID]++
		}
		for modID, count := range seen {
			if count > 1 {
				ms.SetFlag(modID, modset.InfoRepeat)
			}
		}

		for j, h := range r.Hit {
			modID, _ := readset.UnpackHit(h)

			if j > 0 && j+1 < len(r.Hit) && r.Dx[j] < w && r.Dx[j+1] < w {
				ms.SetFlag(modID, modset.InfoInternal)
			}

			thisDepth := ms.Depth(modID)
			if j > 0 {
				prevID, _ := readset.UnpackHit(r.Hit[j-1])
				flagIfMinor(ms, modID, thisDepth, prevID)
			}
			if j+1 < len(r.Hit) {
				nextID, _ := readset.UnpackHit(r.Hit[j+1])
				flagIfMinor(ms, modID, thisDepth, nextID)
			}
		}
	}

	rs.InvBuild()
}

func flagIfMinor(ms *modset.Modset, modID uint32, thisDepth uint16, neighborID uint32) {
	nd := ms.Depth(neighborID)
	if nd == modset.DepthSaturated || thisDepth == modset.DepthSaturated {
		return
	}
	if uint32(nd) > 2*uint32(thisDepth) || uint32(thisDepth) > 2*uint32(nd) {
		ms.SetFlag(modID, modset.InfoMinor)
	}
}
