package modset

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/nanoreads/modsketch/modsketch/hash"
)

// Magic is the 8-byte header written before a serialized modset.
var Magic = [8]byte{'M', 'S', 'H', 'S', 'T', 'v', '1', 0}

// Write serializes the modset: magic, table_bits, size (= max+1),
// the hasher, the full index table, then the value/depth/info arrays
// truncated to size.
func (ms *Modset) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return errors.Wrap(err, "modset: write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(ms.tableBits)); err != nil {
		return errors.Wrap(err, "modset: write table_bits")
	}
	size := ms.max + 1
	if err := binary.Write(w, binary.LittleEndian, size); err != nil {
		return errors.Wrap(err, "modset: write size")
	}
	if err := ms.Hasher.Write(w); err != nil {
		return errors.Wrap(err, "modset: write hasher")
	}
	if err := binary.Write(w, binary.LittleEndian, ms.index); err != nil {
		return errors.Wrap(err, "modset: write index")
	}
	if err := binary.Write(w, binary.LittleEndian, ms.value[:size]); err != nil {
		return errors.Wrap(err, "modset: write value")
	}
	if err := binary.Write(w, binary.LittleEndian, ms.depth[:size]); err != nil {
		return errors.Wrap(err, "modset: write depth")
	}
	if err := binary.Write(w, binary.LittleEndian, ms.info[:size]); err != nil {
		return errors.Wrap(err, "modset: write info")
	}
	return nil
}

// Read deserializes a modset written by Write. A magic mismatch or a
// short read is reported as a corrupt-file error.
func Read(r io.Reader) (*Modset, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "modset: read magic")
	}
	if magic != Magic {
		return nil, errors.Errorf("modset: magic mismatch, got %q want %q", magic, Magic)
	}

	var tableBits int32
	if err := binary.Read(r, binary.LittleEndian, &tableBits); err != nil {
		return nil, errors.Wrap(err, "modset: read table_bits")
	}
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, errors.Wrap(err, "modset: read size")
	}

	h, err := hash.Read(r)
	if err != nil {
		return nil, errors.Wrap(err, "modset: read hasher")
	}

	tableSize := uint64(1) << uint(tableBits)
	index := make([]uint32, tableSize)
	if err := binary.Read(r, binary.LittleEndian, index); err != nil {
		return nil, errors.Wrap(err, "modset: read index")
	}

	value := make([]uint64, size)
	if err := binary.Read(r, binary.LittleEndian, value); err != nil {
		return nil, errors.Wrap(err, "modset: read value")
	}
	depth := make([]uint16, size)
	if err := binary.Read(r, binary.LittleEndian, depth); err != nil {
		return nil, errors.Wrap(err, "modset: read depth")
	}
	info := make([]uint8, size)
	if err := binary.Read(r, binary.LittleEndian, info); err != nil {
		return nil, errors.Wrap(err, "modset: read info")
	}

	return &Modset{
		Hasher:    h,
		tableBits: int(tableBits),
		tableSize: tableSize,
		tableMask: tableSize - 1,
		capacity:  size,
		index:     index,
		value:     value,
		depth:     depth,
		info:      info,
		max:       size - 1,
	}, nil
}
