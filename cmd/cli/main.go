package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pipewright/pipewright/internal/cli"
)

// main is the entrypoint for the pipewright binary.
func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run keeps the real logic testable and in one place.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := cli.NewRootCommand(outW, errW)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	return root.ExecuteContext(ctx)
}
