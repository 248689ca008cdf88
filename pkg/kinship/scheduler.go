package kinship

import "container/heap"

// readyBatch is a set of vertices whose parents are all resident, tagged
// with the estimated net change in cut size that processing it would cause.
type readyBatch struct {
	vertices []int
	score    float64
	seq      uint64
}

// batchHeap implements heap.Interface as a min-heap on score.
// Ties are broken by insertion sequence, which keeps pop order
// deterministic for identical inputs.
type batchHeap []*readyBatch

func (h batchHeap) Len() int { return len(h) }

func (h batchHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq < h[j].seq
}

func (h batchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *batchHeap) Push(x any) { *h = append(*h, x.(*readyBatch)) }

func (h *batchHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return b
}

// scheduler orders ready batches so that batches expected to shrink the cut
// run before batches expected to grow it. The score is a greedy estimate,
// not a guarantee; it bounds typical peak residency closely but changing it
// can only affect memory, never results.
type scheduler struct {
	h   batchHeap
	seq uint64
}

func newScheduler() *scheduler {
	s := &scheduler{}
	heap.Init(&s.h)
	return s
}

// push enqueues a ready batch with the given score.
func (s *scheduler) push(vertices []int, score float64) {
	heap.Push(&s.h, &readyBatch{vertices: vertices, score: score, seq: s.seq})
	s.seq++
}

// pop dequeues the batch with the minimum score.
func (s *scheduler) pop() []int {
	return heap.Pop(&s.h).(*readyBatch).vertices
}

func (s *scheduler) empty() bool { return len(s.h) == 0 }

func (s *scheduler) len() int { return len(s.h) }
