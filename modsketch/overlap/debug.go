package overlap

import (
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

// SharedHit is one line of a PairwiseReport: a copy-1 mod shared
// between two reads, with its position and orientation in each.
type SharedHit struct {
	ModID  uint32
	XPos   int
	XIsFwd bool
	YPos   int
	YIsFwd bool
}

// PairwiseReport walks both reads' hit lists and emits every shared
// copy-1 mod's position and orientation in each, for diagnostics only
// (spec §4.5 "Pairwise overlap report (debug)"). Unlike Engine.Find it
// does not filter by shared-hit count.
func PairwiseReport(rs *readset.ReadSet, ix, iy uint32) []SharedHit {
	x, y := &rs.Reads[ix], &rs.Reads[iy]

	xPosOf := map[uint32]int{}
	xFwdOf := map[uint32]bool{}
	pos := 0
	for j, h := range x.Hit {
		pos += int(x.Dx[j])
		modID, isFwd := readset.UnpackHit(h)
		xPosOf[modID] = pos
		xFwdOf[modID] = isFwd
	}

	var out []SharedHit
	yPos := 0
	for j, h := range y.Hit {
		yPos += int(y.Dx[j])
		modID, isFwdY := readset.UnpackHit(h)
		if rs.MS.Copy(modID) != modset.Copy1 {
			continue
		}
		xPos, ok := xPosOf[modID]
		if !ok {
			continue
		}
		out = append(out, SharedHit{
			ModID: modID, XPos: xPos, XIsFwd: xFwdOf[modID],
			YPos: yPos, YIsFwd: isFwdY,
		})
	}
	return out
}
