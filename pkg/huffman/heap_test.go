package huffman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leafTree(weights ...uint64) *Tree {
	t := &Tree{}
	for i, w := range weights {
		t.nodes = append(t.nodes, node{weight: w, left: noChild, right: noChild, symbol: byte(i)})
	}
	return t
}

func TestNodeHeapExtractsInWeightOrder(t *testing.T) {
	tree := leafTree(5, 1, 4, 1, 3, 9, 2)
	h := newNodeHeap(tree, len(tree.nodes))
	require.NoError(t, h.build([]int32{0, 1, 2, 3, 4, 5, 6}))

	var got []uint64
	var idx []int32
	for h.Len() > 0 {
		i, err := h.extractMin()
		require.NoError(t, err)
		idx = append(idx, i)
		got = append(got, tree.nodes[i].weight)
	}
	require.Equal(t, []uint64{1, 1, 2, 3, 4, 5, 9}, got)
	// equal weights come out in arena order
	require.Equal(t, []int32{1, 3}, idx[:2])
}

func TestNodeHeapInsert(t *testing.T) {
	tree := leafTree(7, 3, 5)
	h := newNodeHeap(tree, 3)
	require.NoError(t, h.build([]int32{0}))
	require.NoError(t, h.insert(1))
	require.NoError(t, h.insert(2))

	i, err := h.extractMin()
	require.NoError(t, err)
	require.EqualValues(t, 1, i)
}

func TestNodeHeapCapacity(t *testing.T) {
	tree := leafTree(1, 2, 3)
	h := newNodeHeap(tree, 2)
	require.ErrorIs(t, h.build([]int32{0, 1, 2}), ErrCapacityExceeded)

	require.NoError(t, h.build([]int32{0, 1}))
	require.ErrorIs(t, h.insert(2), ErrCapacityExceeded)
}

func TestNodeHeapExtractEmpty(t *testing.T) {
	h := newNodeHeap(leafTree(), 0)
	_, err := h.extractMin()
	require.ErrorIs(t, err, ErrHeapEmpty)
}
