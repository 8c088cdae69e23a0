package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// startProfiles starts CPU profiling into cpuFile if set. The returned stop
// function ends it and writes a heap profile to memFile if set.
func startProfiles(cpuFile, memFile string) (func() error, error) {
	var cpu *os.File
	if cpuFile != "" {
		f, err := os.Create(cpuFile)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to create CPU profile").
				WithDetail("path", cpuFile)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "failed to start CPU profile")
		}
		cpu = f
	}

	return func() error {
		if cpu != nil {
			pprof.StopCPUProfile()
			if err := cpu.Close(); err != nil {
				return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to close CPU profile")
			}
		}
		if memFile == "" {
			return nil
		}

		f, err := os.Create(memFile)
		if err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to create memory profile").
				WithDetail("path", memFile)
		}
		defer f.Close()

		runtime.GC() // Get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "failed to write memory profile")
		}
		return nil
	}, nil
}
