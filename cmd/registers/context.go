package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type contextOpts struct {
	rootOpts *rootOpts
}

func newContextCmd(ro *rootOpts) *cobra.Command {
	opts := &contextOpts{rootOpts: ro}
	return &cobra.Command{
		Use:   "context <file>",
		Short: "print a register's context (record/entry counts, title, custodian)",
		Args:  cobra.ExactArgs(1),
		RunE:  opts.run,
	}
}

func (opts *contextOpts) run(cmd *cobra.Command, args []string) error {
	r, err := loadRegister(args[0], opts.rootOpts.cfg.RelaxedMode)
	if err != nil {
		return err
	}

	ctx, err := r.Context()
	if err != nil {
		return err
	}

	if title, ok := r.Title(); ok {
		ctx["register-name"] = title
	}
	if desc, ok := r.Description(); ok {
		ctx["text"] = desc
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(ctx); err != nil {
		return fmt.Errorf("registers context: encoding output: %w", err)
	}
	return nil
}
