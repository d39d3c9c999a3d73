package readset

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/nanoreads/modsketch/modsketch/modset"
)

// Magic is the 8-byte header written before a serialized read set.
// The modset itself is stored separately, as a sibling ".mod" file.
var Magic = [8]byte{'R', 'S', 'M', 'S', 'H', 'v', '2', 0}

// Write serializes the read set: magic, total_hit, then every read's
// metadata (including the burned id-0 sentinel), then each read's
// hit/dx arrays back to back.
func (rs *ReadSet) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return errors.Wrap(err, "readset: write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, rs.TotalHit); err != nil {
		return errors.Wrap(err, "readset: write total_hit")
	}
	n := uint32(len(rs.Reads))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return errors.Wrap(err, "readset: write read count")
	}
	for i, r := range rs.Reads {
		if err := writeReadMeta(w, &r); err != nil {
			return errors.Wrapf(err, "readset: write metadata for read %d", i)
		}
	}
	for i, r := range rs.Reads {
		if len(r.Hit) == 0 {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, r.Hit); err != nil {
			return errors.Wrapf(err, "readset: write hits for read %d", i)
		}
		if err := binary.Write(w, binary.LittleEndian, r.Dx); err != nil {
			return errors.Wrapf(err, "readset: write dx for read %d", i)
		}
	}
	return nil
}

func writeReadMeta(w io.Writer, r *Read) error {
	fields := []interface{}{
		int32(r.Len), int32(r.NHit), int32(r.NMiss), r.Contained,
		int32(r.NCopy[0]), int32(r.NCopy[1]), int32(r.NCopy[2]), int32(r.NCopy[3]),
		r.Bad,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readReadMeta(r io.Reader) (Read, error) {
	var rd Read
	var length, nHit, nMiss int32
	var nCopy [4]int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return rd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nHit); err != nil {
		return rd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nMiss); err != nil {
		return rd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rd.Contained); err != nil {
		return rd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nCopy); err != nil {
		return rd, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rd.Bad); err != nil {
		return rd, err
	}
	rd.Len = int(length)
	rd.NHit = int(nHit)
	rd.NMiss = int(nMiss)
	for i := range nCopy {
		rd.NCopy[i] = int(nCopy[i])
	}
	return rd, nil
}

// Read deserializes a read set written by Write. The caller must
// supply the already-loaded modset it was built against, then call
// InvBuild to reconstruct the inverse index (not itself serialized).
func Read(r io.Reader, ms *modset.Modset) (*ReadSet, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "readset: read magic")
	}
	if magic != Magic {
		return nil, errors.Errorf("readset: magic mismatch, got %q want %q", magic, Magic)
	}

	rs := &ReadSet{MS: ms}
	if err := binary.Read(r, binary.LittleEndian, &rs.TotalHit); err != nil {
		return nil, errors.Wrap(err, "readset: read total_hit")
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(err, "readset: read count")
	}

	rs.Reads = make([]Read, n)
	for i := uint32(0); i < n; i++ {
		rd, err := readReadMeta(r)
		if err != nil {
			return nil, errors.Wrapf(err, "readset: read metadata for read %d", i)
		}
		rs.Reads[i] = rd
	}
	for i := uint32(0); i < n; i++ {
		rd := &rs.Reads[i]
		if rd.NHit == 0 {
			continue
		}
		rd.Hit = make([]uint32, rd.NHit)
		if err := binary.Read(r, binary.LittleEndian, rd.Hit); err != nil {
			return nil, errors.Wrapf(err, "readset: read hits for read %d", i)
		}
		rd.Dx = make([]uint16, rd.NHit)
		if err := binary.Read(r, binary.LittleEndian, rd.Dx); err != nil {
			return nil, errors.Wrapf(err, "readset: read dx for read %d", i)
		}
	}
	return rs, nil
}
