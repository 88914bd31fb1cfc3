package api

import "errors"

// ErrorInvalidArgument for malformed input: nil or foreign buffer to
// Free, an oversized request to Alloc, or a buffer whose recovered
// header does not identify a known slab class.
var ErrorInvalidArgument = errors.New("slab.invalidargument")

// ErrorOutofMemory when the request is valid in size but no eligible
// slab class currently has a free block.
var ErrorOutofMemory = errors.New("slab.outofmemory")
