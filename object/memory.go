package object

import (
	"fmt"
	"math/bits"
	"runtime"
	"runtime/debug"
)

// Size of an interface value in bytes.
const ObjectSize = 2 * bits.UintSize / 8

// Returns the amount of free memory in bytes relative to GOMEMLIMIT.
func FreeMemory() int64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	currentAlloc := memStats.HeapAlloc
	gomemlimit := debug.SetMemoryLimit(-1)
	return int64(gomemlimit) - int64(currentAlloc) //nolint:unconvert,gosec // necessary, can be negative.
}

func SizeOk(n int) (bool, int64) {
	if n <= 256 { // no checks for small slices (4k memory/one typical page)
		return true, 0
	}
	free := FreeMemory()
	return ((free >= 0) && ((int64(n) * ObjectSize) < free)), free
}

// CheckSize returns an error when allocating n values would exceed the memory limit.
func CheckSize(n int) error {
	if ok, _ := SizeOk(n); ok {
		return nil
	}
	runtime.GC()
	if ok, free := SizeOk(n); !ok {
		return fmt.Errorf("would exceed memory requesting %d values, %d free", n, free)
	}
	return nil
}

// MakeArray is a memory checking version of make([]any, 0, n).
func MakeArray(n int) ([]any, error) {
	if err := CheckSize(n); err != nil {
		return nil, err
	}
	return make([]any, 0, n), nil
}
