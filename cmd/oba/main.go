// Command oba runs a single Oba source file and exits with the
// embedding API's result code: 0 for SUCCESS, 65 for COMPILE_ERROR, 70
// for RUNTIME_ERROR.
package main

import (
	"fmt"
	"os"

	"github.com/oba-lang/oba/internal/obaerr"
	"github.com/oba-lang/oba/internal/obalog"
	"github.com/oba-lang/oba/internal/vm"
)

const (
	exitSuccess      = 0
	exitCompileError = 65
	exitRuntimeError = 70
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: oba <script>")
		os.Exit(exitCompileError)
	}

	source, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCompileError)
	}

	machine := vm.New(obalog.New(os.Stderr))
	defer machine.Free()

	if rerr := machine.Interpret(string(source)); rerr != nil {
		fmt.Fprintln(os.Stderr, rerr.Error())
		os.Exit(exitCodeFor(rerr))
	}

	os.Exit(exitSuccess)
}

func exitCodeFor(err *obaerr.ObaError) int {
	if err.Phase == obaerr.PhaseCompile {
		return exitCompileError
	}
	return exitRuntimeError
}
