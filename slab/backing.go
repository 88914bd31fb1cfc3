package slab

// backing is the raw memory under one pool, obtained once at arena
// construction and returned on Release.
type backing interface {
	slice() []byte
	release() error
}

func newbacking(kind string, size int64) backing {
	switch kind {
	case "heap":
		return &heapbacking{buf: make([]byte, size)}
	case "mmap":
		mem, err := newmmapbacking(size)
		if err != nil {
			panicerr("mmap backing: %v", err)
		}
		return mem
	}
	panicerr("invalid backing %q", kind)
	return nil
}

// heapbacking keeps pool memory on the Go heap, the zero-dependency
// default.
type heapbacking struct {
	buf []byte
}

func (mem *heapbacking) slice() []byte {
	return mem.buf
}

func (mem *heapbacking) release() error {
	mem.buf = nil
	return nil
}
