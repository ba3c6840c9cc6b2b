// Package main builds a cgo shared library exposing nodeset parsing,
// folding, and expansion to non-Go callers. NodeSet handles (UUID strings)
// come from nodeset_parse and are freed with nodeset_free; iterator handles
// come from nodeset_iter_new and are freed with nodeset_iter_free.
// nodeset_last_error takes no handle.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/google/uuid"

	"github.com/whamcloud/nodeset-go"
)

var (
	registryMu sync.Mutex
	registry   = make(map[string]nodeset.NodeSet)

	iterMu    sync.Mutex
	iterators = make(map[string]*nsIterator)

	lastErrMu  sync.Mutex
	lastErrMsg string
)

// nsIterator yields the distinct names a NodeSet denotes one at a time,
// backing the iterator factory/step pair exported below. It chains the
// per-Product iterators and de-duplicates across them, matching the
// dedup policy NodeSet.Iterate uses.
type nsIterator struct {
	products []nodeset.Product
	pidx     int
	cur      *nodeset.ProductIterator
	seen     map[string]struct{}
}

func newNsIterator(ns nodeset.NodeSet) *nsIterator {
	return &nsIterator{products: ns.Products(), seen: map[string]struct{}{}}
}

func (it *nsIterator) Next() (string, bool) {
	for {
		if it.cur == nil {
			if it.pidx >= len(it.products) {
				return "", false
			}
			c := it.products[it.pidx].Iterator()
			it.cur = c
			it.pidx++
		}
		name, ok := it.cur.Next()
		if !ok {
			it.cur = nil
			continue
		}
		if _, dup := it.seen[name]; dup {
			continue
		}
		it.seen[name] = struct{}{}
		return name, true
	}
}

func setLastError(err error) C.int {
	lastErrMu.Lock()
	if err != nil {
		lastErrMsg = err.Error()
	} else {
		lastErrMsg = ""
	}
	lastErrMu.Unlock()
	if err != nil {
		return -1
	}
	return 0
}

// copyToBuffer writes data into the caller-supplied buffer, null
// terminated, returning the number of bytes written or -1 if buffer is too
// small.
func copyToBuffer(data string, buffer *C.char, bufferSize C.int) C.int {
	if bufferSize <= 0 {
		return -1
	}
	bytes := []byte(data)
	if len(bytes) >= int(bufferSize) {
		return -1
	}
	dst := (*[1 << 30]byte)(unsafe.Pointer(buffer))[:bufferSize:bufferSize]
	copy(dst, bytes)
	dst[len(bytes)] = 0
	return C.int(len(bytes))
}

//export nodeset_last_error
func nodeset_last_error(outBuffer *C.char, bufferSize C.int) C.int {
	lastErrMu.Lock()
	msg := lastErrMsg
	lastErrMu.Unlock()
	return copyToBuffer(msg, outBuffer, bufferSize)
}

//export nodeset_parse
func nodeset_parse(expr *C.char, outHandle *C.char, handleSize C.int) C.int {
	goExpr := C.GoString(expr)
	ns, err := nodeset.Parse(goExpr, nil)
	if err != nil {
		setLastError(err)
		return -1
	}
	handle := uuid.New().String()

	registryMu.Lock()
	registry[handle] = ns
	registryMu.Unlock()

	setLastError(nil)
	return copyToBuffer(handle, outHandle, handleSize)
}

//export nodeset_free
func nodeset_free(handle *C.char) C.int {
	goHandle := C.GoString(handle)
	registryMu.Lock()
	delete(registry, goHandle)
	registryMu.Unlock()
	return setLastError(nil)
}

func lookup(handle *C.char) (nodeset.NodeSet, bool) {
	goHandle := C.GoString(handle)
	registryMu.Lock()
	ns, ok := registry[goHandle]
	registryMu.Unlock()
	return ns, ok
}

//export nodeset_fold
func nodeset_fold(handle *C.char, outBuffer *C.char, bufferSize C.int) C.int {
	ns, ok := lookup(handle)
	if !ok {
		setLastError(fmt.Errorf("nodeset: invalid handle"))
		return -1
	}
	setLastError(nil)
	return copyToBuffer(nodeset.Fold(ns), outBuffer, bufferSize)
}

//export nodeset_count
func nodeset_count(handle *C.char) C.longlong {
	ns, ok := lookup(handle)
	if !ok {
		setLastError(fmt.Errorf("nodeset: invalid handle"))
		return -1
	}
	setLastError(nil)
	return C.longlong(ns.Cardinality())
}

// endOfIteration is the sentinel nodeset_iter_next returns once an iterator
// is exhausted, distinct from the -1 error sentinel every other exported
// function uses.
const endOfIteration = -2

//export nodeset_iter_new
func nodeset_iter_new(handle *C.char, outIterHandle *C.char, handleSize C.int) C.int {
	ns, ok := lookup(handle)
	if !ok {
		setLastError(fmt.Errorf("nodeset: invalid handle"))
		return -1
	}
	iterHandle := uuid.New().String()
	iterMu.Lock()
	iterators[iterHandle] = newNsIterator(ns)
	iterMu.Unlock()
	setLastError(nil)
	return copyToBuffer(iterHandle, outIterHandle, handleSize)
}

//export nodeset_iter_next
func nodeset_iter_next(iterHandle *C.char, outBuffer *C.char, bufferSize C.int) C.int {
	goHandle := C.GoString(iterHandle)
	iterMu.Lock()
	it, ok := iterators[goHandle]
	iterMu.Unlock()
	if !ok {
		setLastError(fmt.Errorf("nodeset: invalid iterator handle"))
		return -1
	}
	name, ok := it.Next()
	if !ok {
		setLastError(nil)
		return endOfIteration
	}
	setLastError(nil)
	return copyToBuffer(name, outBuffer, bufferSize)
}

//export nodeset_iter_free
func nodeset_iter_free(iterHandle *C.char) C.int {
	goHandle := C.GoString(iterHandle)
	iterMu.Lock()
	delete(iterators, goHandle)
	iterMu.Unlock()
	return setLastError(nil)
}

//export nodeset_expand
func nodeset_expand(handle *C.char, limit C.longlong, outBuffer *C.char, bufferSize C.int) C.int {
	ns, ok := lookup(handle)
	if !ok {
		setLastError(fmt.Errorf("nodeset: invalid handle"))
		return -1
	}
	names, err := ns.Expand(uint64(limit))
	if err != nil {
		setLastError(err)
		return -1
	}
	joined := ""
	for i, n := range names {
		if i > 0 {
			joined += ","
		}
		joined += n
	}
	setLastError(nil)
	return copyToBuffer(joined, outBuffer, bufferSize)
}

func main() {}
