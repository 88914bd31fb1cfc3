package slab

import "fmt"
import "strconv"
import "strings"

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

// round size up to the next multiple of align, align expected to be
// a power of 2.
func alignup(size, align int64) int64 {
	return (size + align - 1) &^ (align - 1)
}

func ispow2(x int64) bool {
	return x > 0 && (x&(x-1)) == 0
}

// parse comma separated list of positive integers, as in
// "64,256,1024".
func csv2sizes(csv string) []int64 {
	var sizes []int64
	for _, field := range strings.Split(csv, ",") {
		size, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			panicerr("invalid size %q in %q", field, csv)
		} else if size <= 0 {
			panicerr("invalid size %v in %q", size, csv)
		}
		sizes = append(sizes, size)
	}
	return sizes
}
