package main

import (
	"fmt"
	"io"
	"os"

	"github.com/roach88/arwiki/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "arwiki: %v\n", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
