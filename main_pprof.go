//go:build !no_pprof

package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"fortio.org/log"
)

var (
	cpuProfile = flag.String("profile-cpu", "", "write cpu profile of the evaluations to `file`")
	memProfile = flag.String("profile-mem", "", "write memory profile at the end to `file`")
	cpuFile    *os.File
)

func init() {
	hookBefore = startProfiling
	hookAfter = stopProfiling
}

func startProfiling() int {
	if *cpuProfile == "" {
		return 0
	}
	var err error
	if cpuFile, err = os.Create(*cpuProfile); err != nil {
		return log.FErrf("Can't create cpu profile: %v", err)
	}
	if err = pprof.StartCPUProfile(cpuFile); err != nil {
		return log.FErrf("Can't start cpu profile: %v", err)
	}
	log.Infof("Writing cpu profile to %s", *cpuProfile)
	return 0
}

func stopProfiling() int {
	if cpuFile != nil {
		pprof.StopCPUProfile()
		cpuFile.Close()
	}
	if *memProfile == "" {
		return 0
	}
	f, err := os.Create(*memProfile)
	if err != nil {
		return log.FErrf("Can't create memory profile: %v", err)
	}
	defer f.Close()
	if err = pprof.WriteHeapProfile(f); err != nil {
		return log.FErrf("Can't write memory profile: %v", err)
	}
	log.Infof("Wrote memory profile to %s", *memProfile)
	return 0
}
