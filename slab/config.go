package slab

import "time"

import s "github.com/bnclabs/gosettings"

// Headersize bytes of book-keeping prepended to every block. Headers
// are private to the arena, callers never see them.
const Headersize = int64(8)

// Maxslabs maximum number of slab classes allowed in an arena.
const Maxslabs = int64(64)

// Maxblocks maximum number of blocks allowed in a single slab class.
const Maxblocks = int64(65536)

// Maxalignment largest supported block alignment.
const Maxalignment = int64(8)

// Defaultsettings for NewArena(). All slab classes are fixed for the
// lifetime of the arena.
//
// "slabsizes" (string, default: "64,256,1024")
//		Usable block size of each slab class, in bytes, ascending.
//		Block size of a class is its usable size plus Headersize,
//		rounded up to "alignment".
//
// "numblocks" (string, default: "10")
//		Block count per slab class. Either a single count applied
//		to every class, or one count per entry in "slabsizes".
//
// "alignment" (int64, default: 8)
//		Block alignment in bytes, a power of 2, upto Maxalignment.
//
// "backing" (string, default: "heap")
//		Backing memory for pools, can be "heap" or "mmap". The
//		"mmap" backing keeps pool memory outside the Go heap.
//
// "reserve.wait" (string, default: "forever")
//		Behaviour when a selected slab class is drained between
//		eligibility check and reservation, can be "forever",
//		"nowait" or "bounded".
//
// "reserve.timeout" (int64, default: 0)
//		Reservation timeout in milliseconds, applicable when
//		"reserve.wait" is "bounded".
func Defaultsettings() s.Settings {
	return s.Settings{
		"slabsizes":       "64,256,1024",
		"numblocks":       "10",
		"alignment":       8,
		"backing":         "heap",
		"reserve.wait":    "forever",
		"reserve.timeout": 0,
	}
}

type waitpolicy int

const (
	waitforever waitpolicy = iota
	waitnone
	waitbounded
)

func str2waitpolicy(wait string) waitpolicy {
	switch wait {
	case "forever":
		return waitforever
	case "nowait":
		return waitnone
	case "bounded":
		return waitbounded
	}
	panicerr("invalid reserve.wait %q", wait)
	return waitforever
}

// slabclass is the resolved configuration of one slab class.
type slabclass struct {
	usable    int64 // bytes usable by the application
	blocksize int64 // usable + Headersize, alignment rounded
	numblocks int64
}

func settings2classes(setts s.Settings) []slabclass {
	sizes := csv2sizes(setts.String("slabsizes"))
	counts := csv2sizes(setts.String("numblocks"))
	alignment := setts.Int64("alignment")

	if ispow2(alignment) == false || alignment > Maxalignment {
		panicerr("alignment %v not a power of 2 upto %v", alignment, Maxalignment)
	} else if int64(len(sizes)) > Maxslabs {
		panicerr("%v slab classes, only %v allowed", len(sizes), Maxslabs)
	} else if len(counts) == 1 {
		for len(counts) < len(sizes) {
			counts = append(counts, counts[0])
		}
	} else if len(counts) != len(sizes) {
		panicerr("numblocks has %v entries for %v slabs", len(counts), len(sizes))
	}

	classes := make([]slabclass, 0, len(sizes))
	for i, usable := range sizes {
		if i > 0 && usable <= sizes[i-1] {
			panicerr("slabsizes not ascending: %v after %v", usable, sizes[i-1])
		} else if counts[i] > Maxblocks {
			panicerr("numblocks %v exceeds %v", counts[i], Maxblocks)
		}
		classes = append(classes, slabclass{
			usable:    usable,
			blocksize: alignup(usable+Headersize, alignment),
			numblocks: counts[i],
		})
	}
	return classes
}

func settings2timeout(setts s.Settings) (waitpolicy, time.Duration) {
	wait := str2waitpolicy(setts.String("reserve.wait"))
	timeout := time.Duration(setts.Int64("reserve.timeout")) * time.Millisecond
	if wait == waitbounded && timeout <= 0 {
		panicerr("reserve.wait bounded needs positive reserve.timeout")
	}
	return wait, timeout
}
