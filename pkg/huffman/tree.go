package huffman

import "fmt"

// MaxCodeLength bounds the depth of any leaf, so every code fits a uint64.
// Reaching it needs Fibonacci-like counts far beyond any in-memory input.
const MaxCodeLength = 64

const noChild int32 = -1

type node struct {
	weight uint64
	left   int32
	right  int32
	symbol byte
}

func (n *node) isLeaf() bool { return n.left == noChild }

// Tree is a Huffman tree stored as an arena. Leaves occupy the first
// Leaves() slots in frequency table order, internal nodes follow in merge
// order. A Tree is immutable once built.
type Tree struct {
	nodes  []node
	root   int32
	leaves int
}

// BuildTree runs the greedy Huffman merge over freqs: the two lightest
// nodes are combined, first extracted on the left, until one remains.
func BuildTree(freqs FrequencyTable) (*Tree, error) {
	if freqs.Len() == 0 {
		return nil, ErrEmptyAlphabet
	}
	if err := freqs.Validate(); err != nil {
		return nil, err
	}

	n := freqs.Len()
	t := &Tree{
		nodes:  make([]node, 0, 2*n-1),
		leaves: n,
	}
	leaves := make([]int32, n)
	for i, e := range freqs {
		t.nodes = append(t.nodes, node{weight: e.Count, left: noChild, right: noChild, symbol: e.Symbol})
		leaves[i] = int32(i)
	}

	h := newNodeHeap(t, n)
	if err := h.build(leaves); err != nil {
		return nil, err
	}

	for h.Len() > 1 {
		left, err := h.extractMin()
		if err != nil {
			return nil, err
		}
		right, err := h.extractMin()
		if err != nil {
			return nil, err
		}
		t.nodes = append(t.nodes, node{
			weight: t.nodes[left].weight + t.nodes[right].weight,
			left:   left,
			right:  right,
		})
		if err := h.insert(int32(len(t.nodes) - 1)); err != nil {
			return nil, err
		}
	}

	root, err := h.extractMin()
	if err != nil {
		return nil, err
	}
	t.root = root

	if height := t.Height(); height > MaxCodeLength {
		return nil, fmt.Errorf("%w: height %d", ErrTreeTooDeep, height)
	}
	return t, nil
}

// Weight is the total count below the root.
func (t *Tree) Weight() uint64 { return t.nodes[t.root].weight }

// Leaves is the alphabet size the tree was built from.
func (t *Tree) Leaves() int { return t.leaves }

// Len is the number of nodes in the tree, 2*Leaves()-1.
func (t *Tree) Len() int { return len(t.nodes) }

// Height is the number of edges on the longest root-to-leaf path. A
// single-leaf tree has height 0.
func (t *Tree) Height() int {
	type frame struct {
		idx   int32
		depth int
	}
	height := 0
	stack := []frame{{t.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[f.idx]
		if n.isLeaf() {
			if f.depth > height {
				height = f.depth
			}
			continue
		}
		stack = append(stack, frame{n.left, f.depth + 1}, frame{n.right, f.depth + 1})
	}
	return height
}
