package slab

import "time"
import "unsafe"
import "sync/atomic"
import "encoding/binary"

// header layout, 8 bytes at the start of every block: 4 byte magic
// followed by the 4 byte tag of the issuing pool. Stamped once at
// reservation, read once at free, scrubbed when the block returns to
// the free queue.
const stampmagic = uint32(0x51aba10c)
const scrubmagic = ^stampmagic

// mempool manages one slab class: a single backing block carved into
// `numblocks` blocks of `blocksize` bytes each. The free queue is a
// buffered channel of block indexes, it serves as free list, as the
// wait/notify mechanism for exhaustion and as the non-mutating
// free-block count. Only the holder of a reserved index touches that
// block's memory, the channel provides the happens-before edge.
type mempool struct {
	// 64-bit aligned stats
	nallocated int64

	tag       uint32 // identity stamped into headers, index in arena
	usable    int64  // bytes usable by the application per block
	blocksize int64  // usable + Headersize, alignment rounded
	numblocks int64
	base      []byte // blocksize * numblocks bytes
	mem       backing
	freeq     chan int64
}

func newmempool(tag uint32, class slabclass, mem backing) *mempool {
	pool := &mempool{
		tag:       tag,
		usable:    class.usable,
		blocksize: class.blocksize,
		numblocks: class.numblocks,
		base:      mem.slice(),
		mem:       mem,
		freeq:     make(chan int64, class.numblocks),
	}
	for nth := int64(0); nth < class.numblocks; nth++ {
		pool.scrubheader(nth)
		pool.freeq <- nth
	}
	return pool
}

// reserve one block honouring the wait policy. Returns false when the
// pool is exhausted and the policy forbids waiting, or the bounded
// wait expires.
func (pool *mempool) reserve(wait waitpolicy, timeout time.Duration) (int64, bool) {
	switch wait {
	case waitnone:
		select {
		case nth := <-pool.freeq:
			atomic.AddInt64(&pool.nallocated, 1)
			return nth, true
		default:
			return -1, false
		}

	case waitbounded:
		tm := time.NewTimer(timeout)
		defer tm.Stop()
		select {
		case nth := <-pool.freeq:
			atomic.AddInt64(&pool.nallocated, 1)
			return nth, true
		case <-tm.C:
			return -1, false
		}
	}
	nth := <-pool.freeq
	atomic.AddInt64(&pool.nallocated, 1)
	return nth, true
}

// release block back to the free queue, never blocks: queue capacity
// equals numblocks and an index is in flight at most once.
func (pool *mempool) release(nth int64) {
	pool.scrubheader(nth)
	atomic.AddInt64(&pool.nallocated, -1)
	pool.freeq <- nth
}

func (pool *mempool) freeblocks() int64 {
	return int64(len(pool.freeq))
}

//---- block geometry

func (pool *mempool) header(nth int64) []byte {
	off := nth * pool.blocksize
	return pool.base[off : off+Headersize]
}

// block return the usable region of the nth block, capacity clamped
// so callers can neither reach the header nor the next block.
func (pool *mempool) block(nth int64) []byte {
	off := nth*pool.blocksize + Headersize
	end := off + pool.usable
	return pool.base[off:end:end]
}

func (pool *mempool) stampheader(nth int64) {
	hdr := pool.header(nth)
	binary.LittleEndian.PutUint32(hdr[:4], stampmagic)
	binary.LittleEndian.PutUint32(hdr[4:], pool.tag)
}

func (pool *mempool) scrubheader(nth int64) {
	hdr := pool.header(nth)
	binary.LittleEndian.PutUint32(hdr[:4], scrubmagic)
	binary.LittleEndian.PutUint32(hdr[4:], ^pool.tag)
}

func (pool *mempool) readheader(nth int64) (magic, tag uint32) {
	hdr := pool.header(nth)
	return binary.LittleEndian.Uint32(hdr[:4]), binary.LittleEndian.Uint32(hdr[4:])
}

// contains maps the address of a usable region back to its block
// index, false when the address is outside this pool or not at a
// usable-region boundary.
func (pool *mempool) contains(addr uintptr) (int64, bool) {
	baseaddr := uintptr(unsafe.Pointer(&pool.base[0]))
	limit := baseaddr + uintptr(len(pool.base))
	if addr < baseaddr+uintptr(Headersize) || addr >= limit {
		return -1, false
	}
	diff := int64(addr - baseaddr)
	if diff%pool.blocksize != Headersize {
		return -1, false
	}
	return diff / pool.blocksize, true
}

//---- statistics

func (pool *mempool) info() (capacity, allocated, overhead int64) {
	capacity = pool.blocksize * pool.numblocks
	allocated = atomic.LoadInt64(&pool.nallocated) * pool.blocksize
	self := int64(unsafe.Sizeof(*pool))
	overhead = (pool.blocksize-pool.usable)*pool.numblocks + self
	return
}

func (pool *mempool) releasemem() error {
	err := pool.mem.release()
	pool.base, pool.freeq = nil, nil
	return err
}
