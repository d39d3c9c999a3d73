// Package modset implements the modset (component C3): an
// open-addressed hash table mapping modimizer hashes to dense ids,
// with per-id saturating depth and an 8-bit info byte encoding
// copy-class and annotation flags.
package modset

import (
	"github.com/pkg/errors"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/util"
)

// CopyClass is one of {0,1,2,M}, encoded in the low 2 bits of info:
// respectively likely error, unique in reference, diploid-unique,
// multi-copy.
type CopyClass uint8

const (
	Copy0 CopyClass = 0
	Copy1 CopyClass = 1
	Copy2 CopyClass = 2
	CopyM CopyClass = 3

	infoCopyMask = 0x03

	// InfoMinor, InfoRepeat, InfoInternal and InfoRDNA are the
	// annotation bits occupying bits 2-5 of info.
	InfoMinor    uint8 = 1 << 2
	InfoRepeat   uint8 = 1 << 3
	InfoInternal uint8 = 1 << 4
	InfoRDNA     uint8 = 1 << 5
)

// DepthSaturated is the sentinel depth value a saturating counter
// sticks at once it overflows 16 bits.
const DepthSaturated uint16 = 0xffff

const (
	minTableBits = 20
	maxTableBits = 34
)

// Modset is the identity table: a dense id assignment over canonical
// k-mer hashes, with per-id depth and info.
type Modset struct {
	Hasher *hash.Hasher

	tableBits int
	tableSize uint64
	tableMask uint64
	capacity  uint32 // array length bound; ids must stay < capacity

	index []uint32 // table_size cells; 0 = empty
	value []uint64 // dense id -> canonical hash, 1-indexed
	depth []uint16
	info  []uint8

	max uint32 // highest assigned dense id
}

// New creates an empty modset with the given table_bits and an
// optional explicit array-capacity size (0 picks the default, the
// largest value keeping load under 25%).
func New(h *hash.Hasher, tableBits int, size uint32) (*Modset, error) {
	if tableBits < minTableBits || tableBits > maxTableBits {
		return nil, errors.Errorf("modset: table_bits %d must be between %d and %d", tableBits, minTableBits, maxTableBits)
	}
	tableSize := uint64(1) << uint(tableBits)
	quarter := tableSize >> 2

	var capacity uint32
	if size == 0 {
		capacity = uint32(quarter - 1)
	} else {
		if uint64(size) >= quarter {
			return nil, errors.Errorf("modset: size %d is too big for %d table bits", size, tableBits)
		}
		capacity = size
	}

	return &Modset{
		Hasher:    h,
		tableBits: tableBits,
		tableSize: tableSize,
		tableMask: tableSize - 1,
		capacity:  capacity,
		index:     make([]uint32, tableSize),
		value:     make([]uint64, 1, capacity+1),
		depth:     make([]uint16, 1, capacity+1),
		info:      make([]uint8, 1, capacity+1),
	}, nil
}

// TableBits, Max, Value, Depth and Info expose the table's shape and
// parallel arrays to callers (read set construction, CLI reporting).
func (ms *Modset) TableBits() int    { return ms.tableBits }
func (ms *Modset) Max() uint32       { return ms.max }
func (ms *Modset) Value(i uint32) uint64 { return ms.value[i] }
func (ms *Modset) Depth(i uint32) uint16 { return ms.depth[i] }
func (ms *Modset) Info(i uint32) uint8   { return ms.info[i] }

// Copy returns the copy-class of dense id i.
func (ms *Modset) Copy(i uint32) CopyClass { return CopyClass(ms.info[i] & infoCopyMask) }

// SetCopy sets the copy-class of dense id i, leaving the annotation
// bits untouched.
func (ms *Modset) SetCopy(i uint32, c CopyClass) {
	ms.info[i] = (ms.info[i] &^ infoCopyMask) | uint8(c)
}

// SetFlag ORs one or more annotation bits into info[i].
func (ms *Modset) SetFlag(i uint32, flag uint8) { ms.info[i] |= flag }

// ClearFlag clears one or more annotation bits in info[i].
func (ms *Modset) ClearFlag(i uint32, flag uint8) { ms.info[i] &^= flag }

// HasFlag reports whether any of the given annotation bits is set.
func (ms *Modset) HasFlag(i uint32, flag uint8) bool { return ms.info[i]&flag != 0 }

// IncrDepth saturating-increments the depth of dense id i.
func (ms *Modset) IncrDepth(i uint32) {
	ms.depth[i] = util.SatIncrU16(ms.depth[i])
}

// SetDepth sets the depth of dense id i directly, e.g. when loading
// depths computed by an external collaborator.
func (ms *Modset) SetDepth(i uint32, d uint16) { ms.depth[i] = d }

// FindOrAdd walks the probe sequence for hash H. If the hash is
// already present its dense id is returned. If absent and isAdd is
// true, a new dense id is allocated; FindOrAdd returns an error (a
// fatal capacity-exhaustion condition) if the table is full. If
// absent and isAdd is false, FindOrAdd returns id 0.
func (ms *Modset) FindOrAdd(h uint64, isAdd bool) (uint32, error) {
	offset := h & ms.tableMask
	id := ms.index[offset]
	var diff uint64
	for id != 0 && ms.value[id] != h {
		if diff == 0 {
			diff = ((h >> uint(ms.tableBits)) & ms.tableMask) | 1
		}
		offset = (offset + diff) & ms.tableMask
		id = ms.index[offset]
	}
	if id == 0 && isAdd {
		newMax := ms.max + 1
		if newMax >= ms.capacity {
			return 0, errors.Errorf("modset: capacity %d too small to add entry %d", ms.capacity, newMax)
		}
		ms.max = newMax
		id = newMax
		ms.index[offset] = id
		ms.value = append(ms.value, h)
		ms.depth = append(ms.depth, 0)
		ms.info = append(ms.info, 0)
	}
	return id, nil
}

// Pack trims the parallel arrays to max+1 entries. It is a no-op if
// already packed, and idempotent.
func (ms *Modset) Pack() bool {
	n := int(ms.max) + 1
	if cap(ms.value) == n {
		return false
	}
	v := make([]uint64, n)
	copy(v, ms.value)
	d := make([]uint16, n)
	copy(d, ms.depth)
	i := make([]uint8, n)
	copy(i, ms.info)
	ms.value, ms.depth, ms.info = v, d, i
	ms.capacity = uint32(n)
	return true
}

// DepthPrune rebuilds the table keeping only entries whose depth lies
// in [dmin, dmax); dmax == 0 means unbounded. Surviving entries are
// renumbered densely starting at 1, preserving relative order.
func (ms *Modset) DepthPrune(dmin, dmax uint16) {
	oldValue, oldDepth, oldInfo := ms.value, ms.depth, ms.info
	n := ms.max

	for i := range ms.index {
		ms.index[i] = 0
	}
	ms.max = 0
	ms.value = make([]uint64, 1, cap(oldValue))
	ms.depth = make([]uint16, 1, cap(oldDepth))
	ms.info = make([]uint8, 1, cap(oldInfo))

	for i := uint32(1); i <= n; i++ {
		d := oldDepth[i]
		if d < dmin || (dmax != 0 && d >= dmax) {
			continue
		}
		newID, err := ms.FindOrAdd(oldValue[i], true)
		if err != nil {
			// the pruned set can never be larger than the set it came
			// from, so running out of capacity here is a programmer
			// error (capacity was shrunk some other way mid-prune).
			panic(err)
		}
		ms.depth[newID] = d
		ms.info[newID] = oldInfo[i]
	}
}

func combineInfo(a, b uint8) uint8 {
	c := (a & infoCopyMask) + (b & infoCopyMask)
	if c > uint8(CopyM) {
		c = uint8(CopyM)
	}
	flags := (a | b) &^ infoCopyMask
	return flags | c
}

// Merge folds other into ms. It fails (without mutating ms) if the
// two modsets were built with different hashers. Depths add
// (saturating); copy-class bits combine as min(sum, 3).
func (ms *Modset) Merge(other *Modset) (bool, error) {
	if ms.Hasher.K != other.Hasher.K || ms.Hasher.W != other.Hasher.W || ms.Hasher.Factor1 != other.Hasher.Factor1 {
		return false, errors.New("modset: merge failed, hashers differ")
	}

	want := ms.max + other.max + 1
	limit := uint32(ms.tableSize >> 2)
	if want > limit {
		want = limit
	}
	if want > ms.capacity {
		ms.capacity = want
	}

	for i := uint32(1); i <= other.max; i++ {
		newID, err := ms.FindOrAdd(other.value[i], true)
		if err != nil {
			return false, errors.Wrap(err, "modset: merge capacity exhausted")
		}
		ms.depth[newID] = util.SatAddU16(ms.depth[newID], other.depth[i])
		ms.info[newID] = combineInfo(ms.info[newID], other.info[i])
	}
	return true, nil
}
