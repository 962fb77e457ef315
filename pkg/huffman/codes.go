package huffman

import (
	"fmt"
	"math/bits"
	"strings"
)

// Code is a root-to-leaf path. The first edge taken is the most
// significant of the Len low bits of Bits; 0 is left, 1 is right.
type Code struct {
	Bits uint64
	Len  uint8
}

// String renders the code as '0'/'1' characters.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(int(c.Len))
	c.appendTo(&sb)
	return sb.String()
}

func (c Code) appendTo(sb *strings.Builder) {
	for i := int(c.Len) - 1; i >= 0; i-- {
		if c.Bits&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
}

// CodeTable maps each symbol present in a tree to its code.
type CodeTable struct {
	codes [256]Code
	n     int
}

// Lookup returns the code for sym and whether sym has one. A nil table has
// no codes.
func (ct *CodeTable) Lookup(sym byte) (Code, bool) {
	if ct == nil {
		return Code{}, false
	}
	c := ct.codes[sym]
	return c, c.Len > 0
}

// Len is the number of symbols with a code.
func (ct *CodeTable) Len() int {
	if ct == nil {
		return 0
	}
	return ct.n
}

// Symbols lists the coded symbols in ascending order.
func (ct *CodeTable) Symbols() []byte {
	syms := make([]byte, 0, ct.Len())
	if ct == nil {
		return syms
	}
	for i, c := range ct.codes {
		if c.Len > 0 {
			syms = append(syms, byte(i))
		}
	}
	return syms
}

// EncodedBits is the length of the stream the table produces for freqs.
func (ct *CodeTable) EncodedBits(freqs FrequencyTable) (uint64, error) {
	var total uint64
	for _, e := range freqs {
		c, ok := ct.Lookup(e.Symbol)
		if !ok {
			return 0, fmt.Errorf("%w: byte %#02x", ErrUnknownSymbol, e.Symbol)
		}
		hi, lo := bits.Mul64(e.Count, uint64(c.Len))
		sum, carry := bits.Add64(total, lo, 0)
		if hi != 0 || carry != 0 {
			return 0, fmt.Errorf("%w: encoded length overflows", ErrInvalidTable)
		}
		total = sum
	}
	return total, nil
}

// DeriveCodes walks t and records the path to every leaf. A tree made of a
// single leaf has no edges, so that symbol gets the one-bit code "0".
func DeriveCodes(t *Tree) (*CodeTable, error) {
	if t == nil {
		return nil, ErrEmptyAlphabet
	}

	ct := &CodeTable{}
	root := &t.nodes[t.root]
	if root.isLeaf() {
		ct.codes[root.symbol] = Code{Bits: 0, Len: 1}
		ct.n = 1
		return ct, nil
	}

	type frame struct {
		idx  int32
		code Code
	}
	stack := make([]frame, 0, MaxCodeLength+1)
	stack = append(stack, frame{idx: t.root})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[f.idx]
		if n.isLeaf() {
			ct.codes[n.symbol] = f.code
			ct.n++
			continue
		}
		if int(f.code.Len) >= MaxCodeLength {
			return nil, fmt.Errorf("%w: path below node %d", ErrTreeTooDeep, f.idx)
		}
		next := Code{Bits: f.code.Bits << 1, Len: f.code.Len + 1}
		stack = append(stack,
			frame{idx: n.right, code: Code{Bits: next.Bits | 1, Len: next.Len}},
			frame{idx: n.left, code: next},
		)
	}
	return ct, nil
}
