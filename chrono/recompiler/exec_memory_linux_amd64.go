//go:build linux && amd64

package recompiler

import (
	"fmt"
	"unsafe"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"golang.org/x/sys/unix"
)

// NativeSupported reports whether compiled code can run on this platform.
const NativeSupported = true

func mmapWritable(size int) ([]byte, error) {
	page := unix.Getpagesize()
	size = (size + page - 1) / page * page
	if size == 0 {
		size = page
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %v: %w", size, err, chronoerrors.ErrMMmap)
	}
	return mem, nil
}

func protectExecutable(mem []byte) error {
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("mprotect %d bytes: %v: %w", len(mem), err, chronoerrors.ErrMMprotect)
	}
	return nil
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}

func entryAddress(mem []byte) uintptr {
	return uintptr(unsafe.Pointer(&mem[0]))
}

// makeFunc builds a Go func value whose code pointer is *entry. A func value
// is a pointer to a closure record whose first word is the code address.
func makeFunc(entry *uintptr) Func {
	p := unsafe.Pointer(entry)
	return *(*Func)(unsafe.Pointer(&p))
}
