package main

import "flag"
import "fmt"
import "math/rand"
import "os"
import "time"

import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"
import sigar "github.com/cloudfoundry/gosigar"
import hm "github.com/dustin/go-humanize"

import "github.com/GoldenBitsSoftware/slaballoc/slab"

var options struct {
	slabsizes string
	numblocks string
	backing   string
	allocsize int
	loglevel  string
}

func argParse() {
	flag.StringVar(&options.slabsizes, "slabsizes", "64,256,1024",
		"usable slab sizes, ascending, comma separated")
	flag.StringVar(&options.numblocks, "numblocks", "10",
		"block count per slab class, single value or comma separated")
	flag.StringVar(&options.backing, "backing", "heap",
		"pool backing memory, heap or mmap")
	flag.IntVar(&options.allocsize, "allocsize", 20,
		"byte size of each demo allocation")
	flag.StringVar(&options.loglevel, "log", "info",
		"log level")
	flag.Parse()
}

func main() {
	argParse()
	log.SetLogger(nil, map[string]interface{}{
		"log.level": options.loglevel, "log.file": "",
	})
	slab.LogComponents("all")

	setts := make(s.Settings).Mixin(slab.Defaultsettings(), s.Settings{
		"slabsizes": options.slabsizes,
		"numblocks": options.numblocks,
		"backing":   options.backing,
	})
	arena := slab.NewArena(setts)

	// allocate until every slab class is exhausted, filling each
	// buffer with a distinct pattern.
	now := time.Now()
	bufs := make([][]byte, 0)
	for {
		buf, err := arena.Alloc(int64(options.allocsize))
		if err != nil {
			log.Infof("arena exhausted after %v allocations: %v\n", len(bufs), err)
			break
		}
		for i := range buf {
			buf[i] = byte(len(bufs))
		}
		bufs = append(bufs, buf)
	}
	fmt.Printf("allocated %v buffers of %v in %v\n",
		len(bufs), hm.Bytes(uint64(options.allocsize)), time.Since(now))
	arena.Log()

	// verify the patterns survived neighbouring writes.
	for n, buf := range bufs {
		for _, c := range buf {
			if c != byte(n) {
				fmt.Printf("buffer %v corrupted: %v\n", n, c)
				os.Exit(1)
			}
		}
	}

	// free in random order, the arena drains back to full capacity.
	rand.Shuffle(len(bufs), func(i, j int) {
		bufs[i], bufs[j] = bufs[j], bufs[i]
	})
	for _, buf := range bufs {
		if err := arena.Free(buf); err != nil {
			fmt.Printf("free failed: %v\n", err)
			os.Exit(1)
		}
	}
	for _, size := range arena.Slabs() {
		fmt.Printf("slab %v free blocks: %v\n",
			hm.Bytes(uint64(size)), arena.Freeblocks(size))
	}
	arena.Log()
	arena.Release()

	printsysmem()
}

func printsysmem() {
	mem := sigar.Mem{}
	mem.Get()
	fmt.Printf("system memory total:%v used:%v free:%v\n",
		hm.Bytes(mem.Total), hm.Bytes(mem.Used), hm.Bytes(mem.Free))
}
