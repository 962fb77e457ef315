package huffman

import (
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// decoder walks a tree one bit at a time and resets to the root after
// every leaf.
type decoder struct {
	t   *Tree
	cur int32
}

func newDecoder(t *Tree) *decoder {
	return &decoder{t: t, cur: t.root}
}

func (d *decoder) step(bit bool) (byte, bool, error) {
	root := &d.t.nodes[d.t.root]
	if root.isLeaf() {
		if bit {
			return 0, false, fmt.Errorf("%w: bit 1 against a single-symbol tree", ErrMalformedStream)
		}
		return root.symbol, true, nil
	}

	n := &d.t.nodes[d.cur]
	if bit {
		d.cur = n.right
	} else {
		d.cur = n.left
	}

	next := &d.t.nodes[d.cur]
	if next.isLeaf() {
		d.cur = d.t.root
		return next.symbol, true, nil
	}
	return 0, false, nil
}

func (d *decoder) atRoot() bool { return d.cur == d.t.root }

// Decode turns a '0'/'1' stream back into bytes using t. A nil tree only
// decodes the empty stream. A stream that stops between two leaves, or
// holds anything other than '0' and '1', is rejected.
func Decode(t *Tree, stream string) ([]byte, error) {
	if t == nil {
		if len(stream) == 0 {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("%w: %d symbols without a tree", ErrMalformedStream, len(stream))
	}

	out := make([]byte, 0, len(stream)/8)
	d := newDecoder(t)
	for i := 0; i < len(stream); i++ {
		var bit bool
		switch stream[i] {
		case '0':
		case '1':
			bit = true
		default:
			return nil, fmt.Errorf("%w: symbol %q at offset %d", ErrMalformedStream, stream[i], i)
		}

		sym, ok, err := d.step(bit)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		if ok {
			out = append(out, sym)
		}
	}
	if !d.atRoot() {
		return nil, fmt.Errorf("%w: stream ends mid-code", ErrMalformedStream)
	}
	return out, nil
}

// DecodeBits reads exactly bitCount bits from r and decodes them with t.
// Running out of input is reported as a malformed stream.
func DecodeBits(r *bitio.Reader, t *Tree, bitCount uint64) ([]byte, error) {
	if t == nil {
		if bitCount == 0 {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("%w: %d bits without a tree", ErrMalformedStream, bitCount)
	}

	var out []byte
	d := newDecoder(t)
	for i := uint64(0); i < bitCount; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: truncated after %d of %d bits: %w", ErrMalformedStream, i, bitCount, err)
			}
			return nil, err
		}

		sym, ok, err := d.step(bit)
		if err != nil {
			return nil, fmt.Errorf("bit %d: %w", i, err)
		}
		if ok {
			out = append(out, sym)
		}
	}
	if !d.atRoot() {
		return nil, fmt.Errorf("%w: stream ends mid-code", ErrMalformedStream)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
