package huffman

import "errors"

var (
	// ErrEmptyAlphabet is returned when a tree is requested for a frequency
	// table with no symbols.
	ErrEmptyAlphabet = errors.New("huffman: empty alphabet")
	// ErrCapacityExceeded means the tree builder pushed more nodes than the
	// heap was sized for.
	ErrCapacityExceeded = errors.New("huffman: heap capacity exceeded")
	ErrHeapEmpty        = errors.New("huffman: extract from empty heap")
	ErrUnknownSymbol    = errors.New("huffman: symbol not in code table")
	ErrMalformedStream  = errors.New("huffman: malformed encoded stream")
	ErrTreeTooDeep      = errors.New("huffman: tree exceeds maximum code length")
	ErrInvalidTable     = errors.New("huffman: invalid frequency table")
	ErrInvalidHeader    = errors.New("huffman: invalid stream header")
)
