package pxlpeep

import (
	"fmt"
	"sync/atomic"
)

// An Allocator provides sample storage to ImageData.
type Allocator interface {
	Allocate(samples int) ([]uint16, error)
	Free(buf []uint16)
}

// A MemoryLimitError reports that an allocation would exceed the allocator budget.
type MemoryLimitError struct {
	Requested int64
	InUse     int64
	Limit     int64
}

func (e *MemoryLimitError) Error() string {
	return fmt.Sprintf("pxlpeep: memory limit exceeded: requested %d bytes, %d in use, limit %d", e.Requested, e.InUse, e.Limit)
}

// HeapAllocator allocates on the Go heap and tracks the bytes it handed out.
// A zero limit means unlimited.
type HeapAllocator struct {
	limit int64
	inUse atomic.Int64
}

// NewHeapAllocator returns an allocator refusing to hand out more than limit bytes at once.
func NewHeapAllocator(limit int64) *HeapAllocator {
	return &HeapAllocator{limit: limit}
}

// Allocate implements Allocator.
func (a *HeapAllocator) Allocate(samples int) ([]uint16, error) {
	if samples <= 0 {
		return nil, InternalError("allocation of an empty buffer")
	}
	n := int64(samples) * sampleSize
	inUse := a.inUse.Add(n)
	if a.limit > 0 && inUse > a.limit {
		a.inUse.Add(-n)
		return nil, &MemoryLimitError{Requested: n, InUse: inUse - n, Limit: a.limit}
	}
	return make([]uint16, samples), nil
}

// Free implements Allocator.
func (a *HeapAllocator) Free(buf []uint16) {
	a.inUse.Add(-int64(len(buf)) * sampleSize)
}

// InUse returns the number of bytes currently allocated.
func (a *HeapAllocator) InUse() int64 {
	return a.inUse.Load()
}

var defaultAllocator Allocator = NewHeapAllocator(0)
