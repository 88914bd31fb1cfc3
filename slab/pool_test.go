package slab

import "testing"
import "time"

import "github.com/lni/goutils/leaktest"

func testclass(usable, numblocks int64) slabclass {
	return slabclass{
		usable:    usable,
		blocksize: alignup(usable+Headersize, 8),
		numblocks: numblocks,
	}
}

func TestPoolReserveRelease(t *testing.T) {
	class := testclass(64, 4)
	pool := newmempool(0, class, newbacking("heap", class.blocksize*class.numblocks))

	if x := pool.freeblocks(); x != 4 {
		t.Errorf("expected %v, got %v", 4, x)
	}
	nths := make([]int64, 0, 4)
	for i := 0; i < 4; i++ {
		nth, ok := pool.reserve(waitnone, 0)
		if !ok {
			t.Errorf("unexpected exhaustion at %v", i)
		}
		nths = append(nths, nth)
	}
	if x := pool.freeblocks(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	if _, ok := pool.reserve(waitnone, 0); ok {
		t.Errorf("expected exhaustion")
	}
	for _, nth := range nths {
		pool.release(nth)
	}
	if x := pool.freeblocks(); x != 4 {
		t.Errorf("expected %v, got %v", 4, x)
	}
	if _, allocated, _ := pool.info(); allocated != 0 {
		t.Errorf("expected %v, got %v", 0, allocated)
	}
}

func TestPoolHeader(t *testing.T) {
	class := testclass(64, 2)
	pool := newmempool(7, class, newbacking("heap", class.blocksize*class.numblocks))

	// fresh blocks carry the scrub marker.
	if magic, tag := pool.readheader(0); magic != scrubmagic {
		t.Errorf("expected %x, got %x", scrubmagic, magic)
	} else if tag != ^uint32(7) {
		t.Errorf("expected %x, got %x", ^uint32(7), tag)
	}
	pool.stampheader(0)
	if magic, tag := pool.readheader(0); magic != stampmagic {
		t.Errorf("expected %x, got %x", stampmagic, magic)
	} else if tag != 7 {
		t.Errorf("expected %v, got %v", 7, tag)
	}
	pool.scrubheader(0)
	if magic, _ := pool.readheader(0); magic != scrubmagic {
		t.Errorf("expected %x, got %x", scrubmagic, magic)
	}
}

func TestPoolGeometry(t *testing.T) {
	class := testclass(64, 4)
	pool := newmempool(0, class, newbacking("heap", class.blocksize*class.numblocks))

	for nth := int64(0); nth < 4; nth++ {
		block := pool.block(nth)
		if x := int64(len(block)); x != 64 {
			t.Errorf("expected %v, got %v", 64, x)
		} else if x := int64(cap(block)); x != 64 {
			t.Errorf("expected %v, got %v", 64, x)
		}
		addr := addrof(block)
		if got, ok := pool.contains(addr); !ok {
			t.Errorf("expected block %v contained", nth)
		} else if got != nth {
			t.Errorf("expected %v, got %v", nth, got)
		}
		// one past the usable start is not a block boundary.
		if _, ok := pool.contains(addr + 1); ok {
			t.Errorf("unexpected containment")
		}
	}
	// the header of block 0 is not a usable region.
	if _, ok := pool.contains(addrof(pool.base)); ok {
		t.Errorf("unexpected containment")
	}
}

func TestPoolBoundedWait(t *testing.T) {
	defer leaktest.AfterTest(t)()

	class := testclass(64, 1)
	pool := newmempool(0, class, newbacking("heap", class.blocksize*class.numblocks))

	nth, ok := pool.reserve(waitbounded, 10*time.Millisecond)
	if !ok {
		t.Errorf("unexpected exhaustion")
	}
	// pool drained, bounded reservation expires.
	if _, ok := pool.reserve(waitbounded, 10*time.Millisecond); ok {
		t.Errorf("expected timeout")
	}
	// a release unblocks a forever reservation.
	go func() {
		time.Sleep(10 * time.Millisecond)
		pool.release(nth)
	}()
	if _, ok := pool.reserve(waitforever, 0); !ok {
		t.Errorf("unexpected exhaustion")
	}
}

func BenchmarkPoolReserveRelease(b *testing.B) {
	class := testclass(64, 1024)
	pool := newmempool(0, class, newbacking("heap", class.blocksize*class.numblocks))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nth, _ := pool.reserve(waitnone, 0)
		pool.release(nth)
	}
}
