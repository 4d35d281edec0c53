package main

import (
	"fmt"

	"github.com/fwojciec/sitekb"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm reset\n")
		return sitekb.Errorf(sitekb.EINVALID, "use --force to confirm reset")
	}

	if err := deps.Registry.Reset(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitekb.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Hash registry cleared; the next ingestion re-adds all content")
	return nil
}
