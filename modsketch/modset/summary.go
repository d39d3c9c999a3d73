package modset

// Summary reports table occupancy, depth statistics taken from the
// depth histogram (total, average, N50) and per-copy-class counts,
// mirroring the C source's modsetSummary (original_source/modset.c).
type Summary struct {
	TableBits    int
	TableSize    uint64
	NumEntries   uint32
	TotalCount   uint64 // sum of all finite depths
	AverageDepth float64
	N50Depth     uint16 // depth d such that half the total count lies at depth >= d
	CopyCounts   [4]uint32
	Saturated    uint32
}

// Summarize computes a Summary over ms. It is read-only.
func (ms *Modset) Summarize() Summary {
	s := Summary{TableBits: ms.tableBits, TableSize: ms.tableSize, NumEntries: ms.max}
	if ms.max == 0 {
		return s
	}

	h, saturated := ms.DepthHistogram()
	s.Saturated = saturated
	for i := range s.CopyCounts {
		s.CopyCounts[i] = 0
	}
	for i := uint32(1); i <= ms.max; i++ {
		s.CopyCounts[ms.Copy(i)]++
	}

	var sum, tot uint64
	for d, count := range h {
		sum += uint64(count)
		tot += uint64(d) * uint64(count)
	}
	s.TotalCount = tot
	if sum > 0 {
		s.AverageDepth = float64(tot) / float64(sum)
	}

	half := int64(tot / 2)
	for d, count := range h {
		half -= int64(d) * int64(count)
		if half < 0 {
			s.N50Depth = uint16(d)
			break
		}
	}

	return s
}

// DepthHistogram buckets every non-saturated mod's depth into a dense
// count-by-depth slice (index = depth), and reports the count of
// saturated (DepthSaturated) mods separately - the C source's
// "more efficient to check" array-growth trick collapses here to a
// single max-depth prepass instead, since Go slices aren't resizable
// in place the way sparse C arrays are.
func (ms *Modset) DepthHistogram() ([]uint32, uint32) {
	var maxDepth uint16
	var saturated uint32
	for i := uint32(1); i <= ms.max; i++ {
		d := ms.depth[i]
		if d == DepthSaturated {
			saturated++
			continue
		}
		if d > maxDepth {
			maxDepth = d
		}
	}

	hist := make([]uint32, int(maxDepth)+1)
	for i := uint32(1); i <= ms.max; i++ {
		d := ms.depth[i]
		if d == DepthSaturated {
			continue
		}
		hist[d]++
	}
	return hist, saturated
}
