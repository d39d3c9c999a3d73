package seqio

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Reader streams Records out of a FASTA or FASTQ file (format is
// auto-detected by fastx), the way lexicmap/cmd loops read
// fastx.Record off a fastx.Reader.
type Reader struct {
	inner *fastx.Reader
	path  string
}

// NewReader opens path for streaming. Format and alphabet are
// auto-detected, matching fastx.NewReader(nil, file, "") in the
// teacher's cmd package.
func NewReader(path string) (*Reader, error) {
	r, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: open %s", path)
	}
	return &Reader{inner: r, path: path}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() {
	r.inner.Close()
}

// Next returns the next record, io.EOF when the file is exhausted, or
// a wrapped read error.
func (r *Reader) Next() (Record, error) {
	rec, err := r.inner.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrapf(err, "seqio: read %s", r.path)
	}

	out := Record{
		ID:      string(rec.ID),
		Seq2bit: Encode2bit(rec.Seq.Seq),
		Len:     len(rec.Seq.Seq),
	}
	if len(rec.Seq.Qual) > 0 {
		out.Qual = append([]byte(nil), rec.Seq.Qual...)
	}
	return out, nil
}

// ReadAll drains the reader, invoking fn for every record in file
// order. It stops and returns fn's error if fn returns non-nil.
func ReadAll(path string, fn func(Record) error) error {
	r, err := NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
