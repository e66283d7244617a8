package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/akashmaji946/simplesml"
	"github.com/akashmaji946/simplesml/interp"
	"github.com/akashmaji946/simplesml/ioline"
	"github.com/akashmaji946/simplesml/simerr"
)

// inputTimeout bounds how long a single INPUT/READ waits for stdin before
// failing the run.
const inputTimeout = 60 * time.Second

// runFile reads and executes a Simple source file with the tree
// interpreter, exiting with the code assigned to whichever pipeline stage
// failed.
func runFile(fileName string) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file %q: %v\n", fileName, err)
		os.Exit(1)
	}

	_, program, err := simplesml.Compile(string(content))
	if err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(simerr.ExitCode(err))
	}

	in := ioline.NewChannel(bufio.NewScanner(os.Stdin), inputTimeout)
	runErr := interp.New(program).Run(context.Background(), in, os.Stdout)
	if runErr != nil {
		redColor.Fprintf(os.Stderr, "%s\n", runErr)
		os.Exit(simerr.ExitCode(runErr))
	}
}
