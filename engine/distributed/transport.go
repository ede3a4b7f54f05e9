// Package distributed implements the rank-partitioned, level-by-level
// broadcast fault-simulation protocol of §4.7 over a narrow message-passing
// Transport, with one concrete implementation (Local) standing in for MPI
// ranks with in-process goroutines and channels.
package distributed

import "sync"

// Transport is the collective-communication seam the distributed protocol
// needs: broadcast a set of (net, value) pairs from whichever rank currently
// owns them, and a barrier separating rounds. No repository in the
// retrieval pack binds a real MPI or gRPC library, so this interface is
// kept narrow enough that a future MPI- or gRPC-backed implementation is a
// drop-in replacement for Local.
type Transport interface {
	Rank() int
	Size() int
	// Broadcast sends (netIDs, values) from owner to every other rank in
	// the group and returns them (echoed back on owner, received on every
	// other rank). Non-owner callers pass nil, nil.
	Broadcast(owner int, netIDs, values []int) ([]int, []uint64, error)
	// Barrier blocks until every rank in the group has called Barrier.
	Barrier()
}

// Local implements Transport with one goroutine "rank" per group member,
// connected by per-rank buffered channels and a shared cyclic barrier.
//
// Grounded on the teacher's channel-gated worker loop (hwsim.go's per-worker
// control channels joined by sync.WaitGroup at Step()), generalized from
// "one channel per CPU worker, ticked once per simulation step" to "one
// channel per rank, carrying a broadcast payload instead of a bare tick".
type Local struct {
	rank    int
	size    int
	inboxes []chan payload
	barrier *cyclicBarrier
}

type payload struct {
	netIDs []int
	values []uint64
}

// NewLocalGroup returns size Local transports, one per rank, sharing the
// channels and barrier that connect them.
func NewLocalGroup(size int) []*Local {
	if size < 1 {
		size = 1
	}
	inboxes := make([]chan payload, size)
	for i := range inboxes {
		inboxes[i] = make(chan payload, size)
	}
	bar := newCyclicBarrier(size)
	group := make([]*Local, size)
	for r := 0; r < size; r++ {
		group[r] = &Local{rank: r, size: size, inboxes: inboxes, barrier: bar}
	}
	return group
}

func (l *Local) Rank() int { return l.rank }
func (l *Local) Size() int { return l.size }

// Broadcast implements Transport.Broadcast: the owner fans its payload out
// to every other rank's inbox, then every rank (owner included) waits at the
// shared barrier before returning, so no rank starts the next round before
// this broadcast is visible to all.
func (l *Local) Broadcast(owner int, netIDs []int, values []uint64) ([]int, []uint64, error) {
	if l.rank == owner {
		for r := 0; r < l.size; r++ {
			if r == owner {
				continue
			}
			l.inboxes[r] <- payload{netIDs: netIDs, values: values}
		}
		l.Barrier()
		return netIDs, values, nil
	}
	p := <-l.inboxes[l.rank]
	l.Barrier()
	return p.netIDs, p.values, nil
}

func (l *Local) Barrier() { l.barrier.wait() }

// cyclicBarrier is a reusable (multi-round) barrier for a fixed group size,
// built on sync.Cond since sync.WaitGroup only supports a single Add/Wait
// round per allocation.
type cyclicBarrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	n     int
	count int
	gen   int
}

func newCyclicBarrier(n int) *cyclicBarrier {
	b := &cyclicBarrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *cyclicBarrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.count++
	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for b.gen == gen {
		b.cond.Wait()
	}
}
