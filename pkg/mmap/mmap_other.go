//go:build !linux && !darwin

package mmap

import "errors"

var errUnsupported = errors.New("mmap is not supported on this platform")

func mmap(int, int64, int, int, int) ([]byte, error) { return nil, errUnsupported }

func munmap([]byte) error { return nil }

func madvise([]byte, int) error { return nil }

const (
	ProtRead     = 0
	MapShared    = 0
	MadvWillneed = 0
)
