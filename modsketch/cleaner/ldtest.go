package cleaner

import (
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

// splitThreshold bounds how many distinct flanking-neighbor mods a
// candidate may have beyond its two expected flanks before its
// linkage pattern is considered fragmented (a "split link").
const splitThreshold = 10

// neighborOf finds the nearest copy-1 neighbor mod of m within read
// r, searching left (side<0) or right (side>0) of m's occurrence at
// hit index j.
func neighborOf(ms *modset.Modset, r *readset.Read, j, side int) (uint32, bool) {
	for k := j + side; k >= 0 && k < len(r.Hit); k += side {
		modID, _ := readset.UnpackHit(r.Hit[k])
		if ms.Copy(modID) == modset.Copy1 {
			return modID, true
		}
	}
	return 0, false
}

// LDTest runs the linkage-disequilibrium test over every copy-1 mod
// whose depth falls in [dmin, dmax): it gathers each occurrence's
// flanking copy-1 neighbors and demotes the mod to copy-class 0 when
// its neighbor linkage looks unreliable (more disagreeing than
// agreeing neighbor counts, or a badly fragmented neighbor set).
// The inverse index is rebuilt once the whole band has been tested.
func LDTest(rs *readset.ReadSet, dmin, dmax uint16) {
	ms := rs.MS

	for m := uint32(1); m <= ms.Max(); m++ {
		if ms.Copy(m) != modset.Copy1 {
			continue
		}
		depth := ms.Depth(m)
		if depth == modset.DepthSaturated || depth < dmin || (dmax != 0 && depth >= dmax) {
			continue
		}

		neighborCount := map[uint32]int{}
		for _, readID := range rs.Inv(m) {
			r := &rs.Reads[readID]
			for j, h := range r.Hit {
				modID, _ := readset.UnpackHit(h)
				if modID != m {
					continue
				}
				if n, ok := neighborOf(ms, r, j, -1); ok {
					neighborCount[n]++
				}
				if n, ok := neighborOf(ms, r, j, 1); ok {
					neighborCount[n]++
				}
			}
		}

		nGood, nMod2 := 0, 0
		threshold := (4 * uint32(depth)) / 5 // 80% of depth
		for _, c := range neighborCount {
			cc := uint32(c)
			if cc == uint32(depth) || cc >= threshold {
				nGood++
			} else {
				nMod2++
			}
		}
		nSplit := len(neighborCount) - 2
		if nSplit < 0 {
			nSplit = 0
		}

		if nGood < nMod2 || nSplit > splitThreshold {
			ms.SetCopy(m, modset.Copy0)
		}
	}

	rs.InvBuild()
}
