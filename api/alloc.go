package api

// Allocator interface for slab based memory management. Buffers are
// issued from a closed set of fixed size slab classes, Alloc and Free
// are safe for concurrent calls.
type Allocator interface {
	// Slabs return usable slab sizes, in ascending order.
	Slabs() (sizes []int64)

	// Alloc allocate a buffer of `n` bytes from the smallest slab
	// class that can accommodate `n` bytes and has a free block.
	Alloc(n int64) ([]byte, error)

	// Free buffer back to the slab class that issued it. Buffer
	// provenance is validated before any slab state is touched.
	Free(buf []byte) error

	// Freeblocks return number of free blocks in the slab class
	// identified by its usable size, -1 for an unknown slab size.
	Freeblocks(slab int64) int64

	// Info of memory accounting for this allocator.
	Info() (capacity, allocated, overhead int64)

	// Utilization map of slab-size and its utilization.
	Utilization() ([]int, []float64)

	// Release allocator and all its resources.
	Release()
}
