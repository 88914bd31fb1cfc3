package slab

import "time"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

import "github.com/GoldenBitsSoftware/slaballoc/api"

// Arena implements api.Allocator{} over an ordered, fixed set of slab
// classes. Requests are served by the smallest class that fits and
// has a free block; a fitting class that is exhausted escalates the
// request to the next larger class. Once a class is picked the
// request never falls back to a smaller class that frees up later,
// smaller-first without rebalance is the documented policy.
type Arena struct {
	pools   []*mempool // ascending by usable size
	maxslab int64      // largest usable size, largest servable request

	// configuration
	wait      waitpolicy
	timeout   time.Duration
	logprefix string
}

// NewArena create an arena from settings, start with Defaultsettings.
// Panics on malformed settings; misconfiguration is a programming
// error, not a runtime condition.
func NewArena(setts s.Settings) *Arena {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	classes := settings2classes(setts)
	kind := setts.String("backing")

	arena := &Arena{
		pools:     make([]*mempool, 0, len(classes)),
		logprefix: "slab.arena",
	}
	arena.wait, arena.timeout = settings2timeout(setts)
	for tag, class := range classes {
		mem := newbacking(kind, class.blocksize*class.numblocks)
		arena.pools = append(arena.pools, newmempool(uint32(tag), class, mem))
	}
	arena.maxslab = classes[len(classes)-1].usable
	infof("%v started with %v slab classes\n", arena.logprefix, len(classes))
	return arena
}

//---- operations

// Alloc implement api.Allocator{} interface. The returned buffer has
// length `n` and capacity of the issuing class's usable size. May
// block when the eligible class is drained between selection and
// reservation, per the "reserve.wait" setting.
func (arena *Arena) Alloc(n int64) ([]byte, error) {
	if arena.pools == nil {
		panicerr("Alloc on released arena")
	}
	if n < 0 || n > arena.maxslab {
		return nil, api.ErrorInvalidArgument
	}
	pool := arena.selectpool(n)
	if pool == nil {
		return nil, api.ErrorOutofMemory
	}
	nth, ok := pool.reserve(arena.wait, arena.timeout)
	if !ok {
		return nil, api.ErrorOutofMemory
	}
	pool.stampheader(nth)
	return pool.block(nth)[:n], nil
}

// Free implement api.Allocator{} interface. Validates the buffer's
// provenance before touching any free queue: a buffer that is nil,
// foreign, misaligned, already free, or whose header does not
// identify the owning class is rejected with ErrorInvalidArgument
// and no slab state changes.
func (arena *Arena) Free(buf []byte) error {
	if arena.pools == nil {
		panicerr("Free on released arena")
	}
	if buf == nil || cap(buf) == 0 {
		return api.ErrorInvalidArgument
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	pool, nth := arena.lookup(addr)
	if pool == nil {
		return api.ErrorInvalidArgument
	}
	if magic, tag := pool.readheader(nth); magic != stampmagic || tag != pool.tag {
		return api.ErrorInvalidArgument
	}
	pool.release(nth)
	return nil
}

// Release implement api.Allocator{} interface. All outstanding
// buffers are invalidated, the arena is unusable afterwards.
func (arena *Arena) Release() {
	for _, pool := range arena.pools {
		if err := pool.releasemem(); err != nil {
			errorf("%v release: %v\n", arena.logprefix, err)
		}
	}
	arena.pools = nil
	infof("%v released\n", arena.logprefix)
}

//---- selection

// selectpool picks the first class, in ascending usable size, that
// fits `n` and reports a free block. The free-block check and the
// subsequent reservation are two steps; losing the race for the last
// block is tolerated, reservation then waits per policy.
func (arena *Arena) selectpool(n int64) *mempool {
	for _, pool := range arena.pools {
		if n <= pool.usable && pool.freeblocks() > 0 {
			return pool
		}
	}
	return nil
}

// lookup maps a buffer address to the pool whose backing contains it
// at a usable-region boundary.
func (arena *Arena) lookup(addr uintptr) (*mempool, int64) {
	for _, pool := range arena.pools {
		if nth, ok := pool.contains(addr); ok {
			return pool, nth
		}
	}
	return nil, -1
}

//---- statistics and maintenance

// Slabs implement api.Allocator{} interface.
func (arena *Arena) Slabs() []int64 {
	sizes := make([]int64, 0, len(arena.pools))
	for _, pool := range arena.pools {
		sizes = append(sizes, pool.usable)
	}
	return sizes
}

// Freeblocks implement api.Allocator{} interface.
func (arena *Arena) Freeblocks(slab int64) int64 {
	for _, pool := range arena.pools {
		if pool.usable == slab {
			return pool.freeblocks()
		}
	}
	return -1
}

// Info implement api.Allocator{} interface.
func (arena *Arena) Info() (capacity, allocated, overhead int64) {
	self := int64(unsafe.Sizeof(*arena))
	overhead += self
	for _, pool := range arena.pools {
		c, a, o := pool.info()
		capacity, allocated, overhead = capacity+c, allocated+a, overhead+o
	}
	return
}

// Utilization implement api.Allocator{} interface.
func (arena *Arena) Utilization() ([]int, []float64) {
	sizes := make([]int, 0, len(arena.pools))
	zs := make([]float64, 0, len(arena.pools))
	for _, pool := range arena.pools {
		_, allocated, _ := pool.info()
		sizes = append(sizes, int(pool.usable))
		zs = append(zs, float64(allocated)/float64(pool.blocksize*pool.numblocks)*100)
	}
	return sizes, zs
}

// Log arena accounting, one line per slab class.
func (arena *Arena) Log() {
	fmsg := "%v slab:%v blocksize:%v free:%v/%v allocated:%v\n"
	for _, pool := range arena.pools {
		_, allocated, _ := pool.info()
		infof(
			fmsg, arena.logprefix,
			humanize.Bytes(uint64(pool.usable)),
			humanize.Bytes(uint64(pool.blocksize)),
			pool.freeblocks(), pool.numblocks,
			humanize.Bytes(uint64(allocated)))
	}
	capacity, allocated, overhead := arena.Info()
	fmsg = "%v capacity:%v allocated:%v overhead:%v\n"
	infof(
		fmsg, arena.logprefix, humanize.Bytes(uint64(capacity)),
		humanize.Bytes(uint64(allocated)), humanize.Bytes(uint64(overhead)))
}
