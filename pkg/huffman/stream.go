package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// StreamMagic opens every packed stream.
var StreamMagic = [4]byte{'H', 'U', 'F', '1'}

// StreamHeader precedes the packed bits. Counts are stored as given, so
// the reader rebuilds the exact tree the writer used.
type StreamHeader struct {
	Table    FrequencyTable
	BitCount uint64
}

// Size is the encoded header length in bytes.
func (h StreamHeader) Size() int64 {
	return int64(len(StreamMagic)) + 2 + int64(h.Table.Len())*9 + 8
}

func writeStreamHeader(w io.Writer, h StreamHeader) error {
	var buf bytes.Buffer
	buf.Grow(int(h.Size()))
	buf.Write(StreamMagic[:])
	binary.Write(&buf, binary.LittleEndian, uint16(h.Table.Len()))
	for _, e := range h.Table {
		buf.WriteByte(e.Symbol)
		binary.Write(&buf, binary.LittleEndian, e.Count)
	}
	binary.Write(&buf, binary.LittleEndian, h.BitCount)

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadStreamHeader reads and validates the header of a packed stream.
func ReadStreamHeader(r io.Reader) (StreamHeader, error) {
	var h StreamHeader

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if magic != StreamMagic {
		return h, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, magic[:])
	}

	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if count > 256 {
		return h, fmt.Errorf("%w: %d symbols", ErrInvalidHeader, count)
	}

	h.Table = make(FrequencyTable, count)
	for i := range h.Table {
		var entry [9]byte
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return h, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		h.Table[i] = FrequencyEntry{
			Symbol: entry[0],
			Count:  binary.LittleEndian.Uint64(entry[1:]),
		}
	}
	if err := h.Table.Validate(); err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.BitCount); err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return h, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteStream writes data as a self-describing packed stream: the
// frequency table, the bit count, then the codes packed MSB first with the
// last byte zero padded. It returns the number of bytes written.
func WriteStream(w io.Writer, data []byte) (int64, error) {
	c, err := NewCodec(BuildFrequencyTable(data))
	if err != nil {
		return 0, err
	}
	bitCount, err := c.EncodedBits()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	if err := writeStreamHeader(cw, StreamHeader{Table: c.Table(), BitCount: bitCount}); err != nil {
		return cw.n, err
	}

	bw := bitio.NewWriter(cw)
	if _, err := EncodeBits(bw, data, c.Codes()); err != nil {
		return cw.n, err
	}
	if err := bw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadStream reverses WriteStream. The bit count must match what the
// stored table implies and the decoded length must match its total.
func ReadStream(r io.Reader) ([]byte, error) {
	h, err := ReadStreamHeader(r)
	if err != nil {
		return nil, err
	}

	c, err := NewCodec(h.Table)
	if err != nil {
		return nil, err
	}
	want, err := c.EncodedBits()
	if err != nil {
		return nil, err
	}
	if h.BitCount != want {
		return nil, fmt.Errorf("%w: header declares %d bits, table implies %d", ErrMalformedStream, h.BitCount, want)
	}

	out, err := DecodeBits(bitio.NewReader(r), c.Tree(), h.BitCount)
	if err != nil {
		return nil, err
	}
	if total := h.Table.Total(); uint64(len(out)) != total {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrMalformedStream, len(out), total)
	}
	return out, nil
}
