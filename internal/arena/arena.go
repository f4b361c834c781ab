// Package arena implements the bump allocator that backs every parse
// tree node and interned string produced by the tree constructor. It is
// released as one unit with the parser's output; individual objects are
// never freed.
package arena

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// chunkSize matches gumbo-parser's ARENA_CHUNK_SIZE: most recent CPUs have
// an L2 cache on this order, so a chunk this size plus a little headroom
// tends to stay cache-resident across a single parse.
const chunkSize = 240000

// pointerAlign is the alignment every allocation is rounded up to.
const pointerAlign = 8

type chunk struct {
	next *chunk
	data []byte
	used int
}

// Arena is a singly-linked list of fixed-size chunks, plus any oversize
// blocks linked in alongside them. Allocate never fails by returning nil;
// it panics with an *OutOfMemoryError on exhaustion, which the parser
// driver recovers at the top of the call stack.
type Arena struct {
	head       *chunk
	maxBytes   int64
	allocated  int64
	chunksMade int
	log        *logrus.Logger
	alloc      AllocFunc
	dealloc    DeallocFunc
}

// DeallocFunc is the shape of a caller-supplied byte-slice release
// callback; see SetGlobalDeallocator.
type DeallocFunc func([]byte)

var globalDealloc DeallocFunc

// SetGlobalDeallocator installs a process-wide release callback invoked
// for every chunk when an arena created without an explicit DeallocFunc
// is destroyed. Passing nil disables it (the default: let the garbage
// collector reclaim the chunks once unreferenced).
func SetGlobalDeallocator(f DeallocFunc) { globalDealloc = f }

// SetDeallocator attaches dealloc to this arena, invoked once per chunk
// from Destroy.
func (a *Arena) SetDeallocator(dealloc DeallocFunc) { a.dealloc = dealloc }

// OutOfMemoryError is the fatal condition described in spec.md §4.1 and
// §7: the only error a parse can raise that isn't a recoverable
// diagnostic. It carries a stack trace via github.com/pkg/errors so a
// caller that hits this in production can tell where the allocation that
// blew the budget came from.
type OutOfMemoryError struct {
	Requested int
	Allocated int64
	MaxBytes  int64
}

func (e *OutOfMemoryError) Error() string {
	return "arena: out of memory"
}

// AllocFunc is the shape of a caller-supplied byte-slice source, used to
// honor html5.Options.Allocator/SetGlobalAllocator without this package
// depending on the public html5 package.
type AllocFunc func(int) []byte

func defaultAlloc(n int) []byte { return make([]byte, n) }

// globalAlloc is the process-wide override installed by
// html5.SetGlobalAllocator; nil means defaultAlloc. It is read once per
// New call, matching spec.md §5's "read-only once a parse is in flight"
// rule.
var globalAlloc AllocFunc

// SetGlobalAllocator installs a process-wide default byte-slice source
// for arenas created without an explicit AllocFunc. Passing nil restores
// Go's runtime allocator.
func SetGlobalAllocator(f AllocFunc) { globalAlloc = f }

// New creates an empty arena. maxBytes of zero means unlimited (bounded
// only by the host's actual memory); a positive value enforces
// Options.MaxArenaBytes from the public API. alloc nil falls back to the
// global override (if any) and then to make([]byte, n).
func New(maxBytes int64, alloc AllocFunc, log *logrus.Logger) *Arena {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if alloc == nil {
		alloc = globalAlloc
	}
	if alloc == nil {
		alloc = defaultAlloc
	}
	a := &Arena{maxBytes: maxBytes, log: log, alloc: alloc}
	a.head = a.newChunk(chunkSize)
	return a
}

func (a *Arena) newChunk(size int) *chunk {
	a.chunksMade++
	a.log.WithFields(logrus.Fields{
		"chunk": a.chunksMade,
		"size":  size,
	}).Trace("arena: allocating chunk")
	return &chunk{data: a.alloc(size)}
}

func align(n int) int {
	return (n + pointerAlign - 1) &^ (pointerAlign - 1)
}

// Allocate returns n freshly zeroed bytes, word-aligned, owned by the
// arena for its entire lifetime. It panics with *OutOfMemoryError if
// maxBytes is set and would be exceeded.
func (a *Arena) Allocate(n int) []byte {
	size := align(n)
	if a.maxBytes > 0 && a.allocated+int64(size) > a.maxBytes {
		panic(errors.WithStack(&OutOfMemoryError{
			Requested: n,
			Allocated: a.allocated,
			MaxBytes:  a.maxBytes,
		}))
	}

	if a.head.used+size > len(a.head.data) {
		if size > chunkSize {
			// Oversize request: give it a dedicated chunk, linked in
			// ahead of the active chunk, which stays active for
			// subsequent small allocations.
			oversize := a.newChunk(size)
			oversize.next = a.head.next
			a.head.next = oversize
			a.allocated += int64(size)
			oversize.used = size
			return oversize.data[:n]
		}
		next := a.newChunk(chunkSize)
		next.next = a.head
		a.head = next
	}

	start := a.head.used
	a.head.used += size
	a.allocated += int64(size)
	return a.head.data[start : start+n]
}

// AllocateString copies s into the arena and returns the arena-owned
// backing string, so that interned strings (tag names, attribute names)
// share the arena's lifetime instead of pinning the original input buffer
// or adding GC pressure per string.
func (a *Arena) AllocateString(s string) string {
	b := a.Allocate(len(s))
	copy(b, s)
	return string(b)
}

// Destroy releases every chunk. It is idempotent: calling it twice is a
// safe no-op the second time.
func (a *Arena) Destroy() {
	dealloc := a.dealloc
	if dealloc == nil {
		dealloc = globalDealloc
	}
	if dealloc != nil {
		for ch := a.head; ch != nil; ch = ch.next {
			dealloc(ch.data)
		}
	}
	a.head = nil
}

// Alloc returns a zeroed *T backed by the arena, the same placement-new
// technique gumbo-parser's arena gets for free in C from struct-returning
// allocation macros. The tree constructor uses this for every Node instead
// of a plain `new(Node)`, so a whole parse tree is released in the single
// Destroy call instead of per-node by the garbage collector.
func Alloc[T any](a *Arena) *T {
	var zero T
	b := a.Allocate(int(unsafe.Sizeof(zero)))
	return (*T)(unsafe.Pointer(&b[0]))
}

// Stats reports coarse allocation counters, mostly useful for tests that
// want to verify Destroy actually released everything (a counting
// allocator test double can wrap New/Allocate).
type Stats struct {
	ChunksMade int
	Allocated  int64
}

// Stats returns the current allocation counters.
func (a *Arena) Stats() Stats {
	return Stats{ChunksMade: a.chunksMade, Allocated: a.allocated}
}
