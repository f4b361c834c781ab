package html5

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/gohtml5/parser/internal/arena"
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
	"github.com/gohtml5/parser/internal/tree"
)

// SetGlobalAllocator installs a process-wide default byte-slice source
// for every arena created by a subsequent Parse call whose Options.
// Allocator is nil. It is the only piece of state Parse calls share
// (spec.md §5); set it before starting any concurrent parses, since it
// is read, not synchronized, while a parse is in flight.
func SetGlobalAllocator(alloc func(int) []byte) {
	if alloc == nil {
		arena.SetGlobalAllocator(nil)
		return
	}
	arena.SetGlobalAllocator(arena.AllocFunc(alloc))
}

// SetGlobalDeallocator installs the matching process-wide release
// callback; see SetGlobalAllocator.
func SetGlobalDeallocator(dealloc func([]byte)) {
	if dealloc == nil {
		arena.SetGlobalDeallocator(nil)
		return
	}
	arena.SetGlobalDeallocator(arena.DeallocFunc(dealloc))
}

// Parse runs a single parse with default Options.
func Parse(input []byte) (*Output, error) {
	return ParseWithOptions(Options{}, input)
}

// ParseReader reads r fully, wrapping any read error with a stack trace,
// then delegates to ParseWithOptions. Streaming/incremental input is a
// Non-goal (spec.md §1): the whole buffer is always read up front.
func ParseReader(r io.Reader, opts Options) (*Output, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "html5: reading input")
	}
	return ParseWithOptions(opts, buf)
}

// ParseWithOptions is the module's single non-reentrant entry point
// (spec.md §1): it returns an immutable parse tree plus an ordered list
// of diagnostics. The returned error is non-nil only for the one usage
// error (a non-zero FragmentContext, which is a rejected placeholder) and
// for the one fatal condition, arena exhaustion — never for ordinary
// diagnostics, which flow through Output.Diagnostics instead.
func ParseWithOptions(opts Options, input []byte) (out *Output, err error) {
	opts = opts.normalized()

	if opts.FragmentContext != tag.Unknown {
		return nil, errors.New("html5: fragment parsing is not implemented; FragmentContext must be the zero value")
	}

	a := arena.New(opts.MaxArenaBytes, arena.AllocFunc(opts.Allocator), opts.Logger)
	if opts.Deallocator != nil {
		a.SetDeallocator(arena.DeallocFunc(opts.Deallocator))
	}

	out = &Output{arena: a}

	maxErrors := opts.MaxErrors
	tok := token.New(input, opts.TabStop, opts.Logger)
	cfg := tree.Config{
		Arena:            a,
		Log:              opts.Logger,
		ScriptingEnabled: false,
		MaxErrors:        maxErrors,
		StopOnFirstError: opts.StopOnFirstError,
		FragmentContext:  opts.FragmentContext,
	}
	c := tree.New(cfg)

	// Two cooperating goroutines, synchronized by the tokenizer's
	// channel handshake plus this WaitGroup, reproduce the same
	// tokenizer/tree-constructor split the teacher drives over
	// tokChan/stateChan in parser/parser.go (spec.md §5): to any
	// external caller this call is indistinguishable from a synchronous
	// function.
	var wg sync.WaitGroup
	var treePanic any
	wg.Add(2)
	go func() {
		defer wg.Done()
		tok.Run()
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				treePanic = r
			}
		}()
		c.Run(tok.Tokens(), tok)
	}()
	wg.Wait()

	if treePanic != nil {
		if panicErr, ok := treePanic.(error); ok {
			if _, ok := errors.Cause(panicErr).(*arena.OutOfMemoryError); ok {
				out.OutOfMemory = true
				out.FatalErr = panicErr
				return out, out.FatalErr
			}
		}
		panic(treePanic)
	}

	for _, d := range tok.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, fromInternalDiagnostic(d))
	}
	for _, d := range c.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, fromInternalDiagnostic(d))
	}
	if maxErrors >= 0 && len(out.Diagnostics) > maxErrors {
		out.Diagnostics = out.Diagnostics[:maxErrors]
	}

	out.Document = c.Document
	out.Root = c.Root()
	return out, nil
}
