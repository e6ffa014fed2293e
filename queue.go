package eos

// Queue is a bounded FIFO of fixed-size items, stored by copy in a byte
// ring. Producers and consumers block on the same wait token (the queue
// itself), so a wake is not a guarantee: a woken producer may find the
// queue refilled by a peer and block again. The mandatory re-check loop in
// Put and Get makes this safe, at the cost of the occasional spurious
// wakeup under heavy multi-producer/multi-consumer contention.
type Queue struct {
	k        *Kernel
	buf      []byte
	head     uint32 // next index to dequeue
	tail     uint32 // next index to enqueue
	count    uint32
	capacity uint32
	itemSize uint32
}

// NewQueue creates a queue of capacity fixed-size slots.
func (k *Kernel) NewQueue(capacity, itemSize int) (*Queue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if itemSize <= 0 {
		return nil, ErrInvalidItemSize
	}
	q := &Queue{
		k:        k,
		buf:      make([]byte, capacity*itemSize),
		capacity: uint32(capacity),
		itemSize: uint32(itemSize),
	}
	k.logger().Debug().
		Int("capacity", capacity).
		Int("itemSize", itemSize).
		Log("queue created")
	return q, nil
}

// slot returns the byte range of slot i. Callers hold the critical section.
func (q *Queue) slot(i uint32) []byte {
	return q.buf[i*q.itemSize : (i+1)*q.itemSize]
}

// Put copies item into the queue, blocking while full. Task context only;
// interrupt context must use TryPut. The item length must equal the queue's
// item size.
func (q *Queue) Put(item []byte) error {
	return q.put(item, true)
}

// TryPut copies item into the queue if a slot is immediately free,
// returning ErrWouldBlock otherwise. Safe from interrupt context; a failed
// try changes nothing and requests no context switch.
func (q *Queue) TryPut(item []byte) error {
	return q.put(item, false)
}

func (q *Queue) put(item []byte, blocking bool) error {
	if uint32(len(item)) != q.itemSize {
		return ErrItemSize
	}
	k := q.k
	k.enterCritical()
	for q.count == q.capacity {
		if !blocking {
			k.exitCritical()
			return ErrWouldBlock
		}
		k.blockCurrent(q)
	}
	copy(q.slot(q.tail), item)
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	woken := k.unblock(q)
	preempt := k.wakePreempts(woken)
	k.exitCritical()
	if preempt {
		k.port.ContextSwitch()
	}
	return nil
}

// Get copies the oldest item into out, blocking while empty. Task context
// only; interrupt context must use TryGet. The out length must equal the
// queue's item size.
func (q *Queue) Get(out []byte) error {
	return q.get(out, true)
}

// TryGet copies the oldest item into out if one is immediately available,
// returning ErrWouldBlock otherwise. Safe from interrupt context; a failed
// try changes nothing and requests no context switch.
func (q *Queue) TryGet(out []byte) error {
	return q.get(out, false)
}

func (q *Queue) get(out []byte, blocking bool) error {
	if uint32(len(out)) != q.itemSize {
		return ErrItemSize
	}
	k := q.k
	k.enterCritical()
	for q.count == 0 {
		if !blocking {
			k.exitCritical()
			return ErrWouldBlock
		}
		k.blockCurrent(q)
	}
	copy(out, q.slot(q.head))
	q.head = (q.head + 1) % q.capacity
	q.count--
	woken := k.unblock(q)
	preempt := k.wakePreempts(woken)
	k.exitCritical()
	if preempt {
		k.port.ContextSwitch()
	}
	return nil
}

// Len returns the number of queued items. Stable only from a context that
// excludes concurrent queue operations.
func (q *Queue) Len() int {
	k := q.k
	k.enterCritical()
	n := int(q.count)
	k.exitCritical()
	return n
}

// Cap returns the queue's capacity in items.
func (q *Queue) Cap() int { return int(q.capacity) }
