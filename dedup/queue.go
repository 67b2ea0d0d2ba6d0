package dedup

// A pendingRead tracks one accepted read request whose response has not yet
// been delivered back to the requester.
type pendingRead struct {
	wasFiltered bool
	reqID       string
}

// orderQueue is the response-order queue. It is a fixed-capacity ring buffer
// consumed in strict FIFO order, one entry per response-stream slot. It is
// not fall-through: the component pops before it pushes within a cycle, so a
// pushed entry is never consumed in the cycle it was pushed.
type orderQueue struct {
	entries []pendingRead
	head    int
	count   int
}

func newOrderQueue(capacity int) *orderQueue {
	if capacity <= 0 {
		panic("order queue capacity must be positive")
	}

	return &orderQueue{entries: make([]pendingRead, capacity)}
}

func (q *orderQueue) full() bool {
	return q.count == len(q.entries)
}

func (q *orderQueue) empty() bool {
	return q.count == 0
}

func (q *orderQueue) push(e pendingRead) {
	if q.full() {
		panic("order queue overflow")
	}

	q.entries[(q.head+q.count)%len(q.entries)] = e
	q.count++
}

func (q *orderQueue) peek() pendingRead {
	if q.empty() {
		panic("order queue underflow")
	}

	return q.entries[q.head]
}

func (q *orderQueue) pop() pendingRead {
	e := q.peek()
	q.head = (q.head + 1) % len(q.entries)
	q.count--

	return e
}
