// Package slab supplies deterministic memory management over a fixed
// set of slab classes, with a limited scope:
//
//   - Slab classes are configured once, at arena construction, and
//     never grow or shrink afterwards.
//   - Allocation picks the smallest class that fits the request and
//     has a free block, escalating to the next larger class when a
//     fitting class is exhausted.
//   - Every block carries a hidden header recording the slab class
//     that issued it; Free validates that provenance and refuses to
//     touch any free list when the header is inconsistent.
//   - Allocation is O(1) with no fragmentation beyond the fixed
//     block sizes; Free never blocks.
//
// Arena and its pools are safe for concurrent use. Under the default
// wait policy an Alloc that races with other callers for the last
// block of a class can block until a block is freed back to that
// class; callers needing bounded latency should configure the
// "reserve.wait" setting or layer their own timeout.
//
// A freed buffer is rejected on a second Free for as long as its
// block stays free. Once the block has been issued again, a stale
// second Free is indistinguishable from the new owner's Free; callers
// own that discipline, as with any manual allocator.
package slab
