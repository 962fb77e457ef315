package huffman

import "container/heap"

// nodeHeap is a min-heap of arena indices ordered by node weight. Equal
// weights fall back to arena order so that both ends of a round trip grow
// the same tree from the same table.
type nodeHeap struct {
	tree     *Tree
	items    []int32
	capacity int
}

func newNodeHeap(t *Tree, capacity int) *nodeHeap {
	return &nodeHeap{
		tree:     t,
		items:    make([]int32, 0, capacity),
		capacity: capacity,
	}
}

func (h *nodeHeap) Len() int { return len(h.items) }
func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	wa, wb := h.tree.nodes[a].weight, h.tree.nodes[b].weight
	if wa != wb {
		return wa < wb
	}
	return a < b
}
func (h *nodeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *nodeHeap) Push(x interface{}) {
	h.items = append(h.items, x.(int32))
}
func (h *nodeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[0 : n-1]
	return item
}

// build loads every index and restores the heap property bottom-up.
func (h *nodeHeap) build(indices []int32) error {
	if len(indices) > h.capacity {
		return ErrCapacityExceeded
	}
	h.items = append(h.items[:0], indices...)
	heap.Init(h)
	return nil
}

func (h *nodeHeap) insert(idx int32) error {
	if len(h.items) >= h.capacity {
		return ErrCapacityExceeded
	}
	heap.Push(h, idx)
	return nil
}

func (h *nodeHeap) extractMin() (int32, error) {
	if len(h.items) == 0 {
		return 0, ErrHeapEmpty
	}
	return heap.Pop(h).(int32), nil
}
