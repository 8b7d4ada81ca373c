package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type schemaOpts struct {
	rootOpts *rootOpts
}

func newSchemaCmd(ro *rootOpts) *cobra.Command {
	opts := &schemaOpts{rootOpts: ro}
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "print a register's derived schema",
		Args:  cobra.ExactArgs(1),
		RunE:  opts.run,
	}
}

func (opts *schemaOpts) run(cmd *cobra.Command, args []string) error {
	r, err := loadRegister(args[0], opts.rootOpts.cfg.RelaxedMode)
	if err != nil {
		return err
	}

	s, err := r.Schema()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "primary-key: %s\n", s.PrimaryKey)
	for _, attr := range s.Attributes() {
		fmt.Fprintf(out, "%s\tdatatype=%s\tcardinality=%s", attr.UID, attr.Datatype, attr.Cardinality)
		if attr.Description != "" {
			fmt.Fprintf(out, "\t%s", attr.Description)
		}
		fmt.Fprintln(out)
	}
	return nil
}
