package huffman

import "fmt"

// FrequencyEntry is the occurrence count of one byte value.
type FrequencyEntry struct {
	Symbol byte
	Count  uint64
}

// FrequencyTable holds one entry per distinct byte, ascending by symbol.
type FrequencyTable []FrequencyEntry

// BuildFrequencyTable counts every byte in data. An empty buffer yields an
// empty table.
func BuildFrequencyTable(data []byte) FrequencyTable {
	var counts [256]uint64
	for _, b := range data {
		counts[b]++
	}

	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}

	table := make(FrequencyTable, 0, n)
	for sym, c := range counts {
		if c > 0 {
			table = append(table, FrequencyEntry{Symbol: byte(sym), Count: c})
		}
	}
	return table
}

// Len is the alphabet size.
func (t FrequencyTable) Len() int { return len(t) }

// Total is the number of bytes the table was built from.
func (t FrequencyTable) Total() uint64 {
	var total uint64
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Validate checks a table that did not come from BuildFrequencyTable, such
// as one read back from disk.
func (t FrequencyTable) Validate() error {
	if len(t) > 256 {
		return fmt.Errorf("%w: %d symbols", ErrInvalidTable, len(t))
	}
	var total uint64
	for i, e := range t {
		if e.Count == 0 {
			return fmt.Errorf("%w: symbol %#02x has zero count", ErrInvalidTable, e.Symbol)
		}
		if i > 0 && e.Symbol <= t[i-1].Symbol {
			return fmt.Errorf("%w: symbols not strictly ascending at %d", ErrInvalidTable, i)
		}
		if total+e.Count < total {
			return fmt.Errorf("%w: counts overflow", ErrInvalidTable)
		}
		total += e.Count
	}
	return nil
}
