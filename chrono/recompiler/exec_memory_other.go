//go:build !(linux && amd64)

package recompiler

import "github.com/colorfulnotion/chronospatial/chronoerrors"

const NativeSupported = false

func mmapWritable(size int) ([]byte, error) {
	return nil, chronoerrors.ErrEUnsupportedPlatform
}

func protectExecutable(mem []byte) error {
	return chronoerrors.ErrEUnsupportedPlatform
}

func unmap(mem []byte) error {
	return chronoerrors.ErrEUnsupportedPlatform
}

func entryAddress(mem []byte) uintptr { return 0 }

func makeFunc(entry *uintptr) Func {
	return func(a, b, c uint64) uint64 { panic(chronoerrors.ErrEUnsupportedPlatform) }
}
