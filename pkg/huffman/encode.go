package huffman

import (
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// Encode concatenates the code of every byte of data as '0'/'1'
// characters. Every byte must have a code; nothing is returned otherwise.
func Encode(data []byte, codes *CodeTable) (string, error) {
	total, err := encodedLen(data, codes)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(int(total))
	for _, b := range data {
		codes.codes[b].appendTo(&sb)
	}
	return sb.String(), nil
}

// EncodeBits writes the packed codes of data to w and returns the number of
// bits written. The caller owns w and must Close it to flush the final
// partial byte.
func EncodeBits(w *bitio.Writer, data []byte, codes *CodeTable) (uint64, error) {
	total, err := encodedLen(data, codes)
	if err != nil {
		return 0, err
	}
	for _, b := range data {
		c := codes.codes[b]
		if err := w.WriteBits(c.Bits, c.Len); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func encodedLen(data []byte, codes *CodeTable) (uint64, error) {
	var total uint64
	for i, b := range data {
		c, ok := codes.Lookup(b)
		if !ok {
			return 0, fmt.Errorf("%w: byte %#02x at offset %d", ErrUnknownSymbol, b, i)
		}
		total += uint64(c.Len)
	}
	return total, nil
}
