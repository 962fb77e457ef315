package stats

import (
	"fmt"
	"io"
	"math"

	"huffar/pkg/huffman"

	"github.com/klauspost/compress/zstd"
)

// CodeRow is one line of the code table.
type CodeRow struct {
	Symbol byte
	Count  uint64
	Code   string
}

type Report struct {
	RawSize      int
	AlphabetSize int
	// Entropy is the Shannon entropy in bits per byte.
	Entropy float64
	// AverageCodeLength is the encoded bits per byte.
	AverageCodeLength float64
	EncodedBits       uint64
	StreamSize        int64
	ZstdSize          int
	TreeHeight        int
	Codes             []CodeRow
}

// Ratio is StreamSize over RawSize; 0 for empty input.
func (r Report) Ratio() float64 {
	if r.RawSize == 0 {
		return 0
	}
	return float64(r.StreamSize) / float64(r.RawSize)
}

// Compute measures how data codes under Huffman and, for reference, zstd.
func Compute(data []byte) (Report, error) {
	r := Report{RawSize: len(data)}

	freqs := huffman.BuildFrequencyTable(data)
	r.AlphabetSize = freqs.Len()
	r.Entropy = entropy(freqs)

	c, err := huffman.NewCodec(freqs)
	if err != nil {
		return r, err
	}
	r.EncodedBits, err = c.EncodedBits()
	if err != nil {
		return r, err
	}
	if len(data) > 0 {
		r.AverageCodeLength = float64(r.EncodedBits) / float64(len(data))
		r.TreeHeight = c.Tree().Height()
	}

	for _, e := range freqs {
		code, _ := c.Codes().Lookup(e.Symbol)
		r.Codes = append(r.Codes, CodeRow{Symbol: e.Symbol, Count: e.Count, Code: code.String()})
	}

	r.StreamSize, err = huffman.WriteStream(io.Discard, data)
	if err != nil {
		return r, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return r, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()
	r.ZstdSize = len(enc.EncodeAll(data, nil))

	return r, nil
}

func entropy(freqs huffman.FrequencyTable) float64 {
	total := float64(freqs.Total())
	if total == 0 {
		return 0
	}
	var h float64
	for _, e := range freqs {
		p := float64(e.Count) / total
		h -= p * math.Log2(p)
	}
	return h
}
