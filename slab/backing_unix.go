//go:build unix

package slab

import "golang.org/x/sys/unix"

// mmapbacking keeps pool memory in an anonymous private mapping,
// outside the Go heap. Useful when arenas are large and should not
// contribute to GC scan time.
type mmapbacking struct {
	buf []byte
}

func newmmapbacking(size int64) (backing, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE
	buf, err := unix.Mmap(-1, 0, int(size), prot, flags)
	if err != nil {
		return nil, err
	}
	return &mmapbacking{buf: buf}, nil
}

func (mem *mmapbacking) slice() []byte {
	return mem.buf
}

func (mem *mmapbacking) release() error {
	buf := mem.buf
	mem.buf = nil
	return unix.Munmap(buf)
}
