package huffman

// Codec bundles a frequency table with the tree and code table derived
// from it. A codec built from an empty table has neither and only handles
// empty input.
type Codec struct {
	freqs FrequencyTable
	tree  *Tree
	codes *CodeTable
}

// NewCodec builds the tree and code table for freqs.
func NewCodec(freqs FrequencyTable) (*Codec, error) {
	c := &Codec{freqs: freqs}
	if freqs.Len() == 0 {
		return c, nil
	}

	tree, err := BuildTree(freqs)
	if err != nil {
		return nil, err
	}
	codes, err := DeriveCodes(tree)
	if err != nil {
		return nil, err
	}
	c.tree = tree
	c.codes = codes
	return c, nil
}

// Table, Tree and Codes expose the parts; Tree and Codes are nil for an
// empty table.
func (c *Codec) Table() FrequencyTable { return c.freqs }
func (c *Codec) Tree() *Tree           { return c.tree }
func (c *Codec) Codes() *CodeTable     { return c.codes }

// EncodedBits is the stream length for the buffer the table describes.
func (c *Codec) EncodedBits() (uint64, error) {
	if c.codes == nil {
		return 0, nil
	}
	return c.codes.EncodedBits(c.freqs)
}

// Encode renders data as a '0'/'1' stream.
func (c *Codec) Encode(data []byte) (string, error) { return Encode(data, c.codes) }

// Decode reverses Encode.
func (c *Codec) Decode(stream string) ([]byte, error) { return Decode(c.tree, stream) }

// Compress counts data, builds its code and encodes it. The returned table
// is what Decompress needs to rebuild the same tree.
func Compress(data []byte) (FrequencyTable, string, error) {
	freqs := BuildFrequencyTable(data)
	c, err := NewCodec(freqs)
	if err != nil {
		return nil, "", err
	}
	stream, err := c.Encode(data)
	if err != nil {
		return nil, "", err
	}
	return freqs, stream, nil
}

// Decompress rebuilds the tree from freqs and decodes stream with it.
func Decompress(freqs FrequencyTable, stream string) ([]byte, error) {
	c, err := NewCodec(freqs)
	if err != nil {
		return nil, err
	}
	return c.Decode(stream)
}
