//go:build !unix

package slab

import "errors"

func newmmapbacking(size int64) (backing, error) {
	return nil, errors.New("mmap backing not supported on this platform")
}
