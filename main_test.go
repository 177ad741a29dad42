//go:build !windows

package main_test

import (
	"os"
	"testing"

	"fortio.org/testscript"
	main "grol.io/lits"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"lits": main.Main,
	}))
}

func TestLitsCli(t *testing.T) {
	testscript.Run(t, testscript.Params{Dir: "testdata"})
}
