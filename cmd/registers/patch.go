package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openregister/registers-cli/pkg/patch"
	"github.com/openregister/registers-cli/pkg/rsf"
	"github.com/openregister/registers-cli/pkg/xsv"
)

func newPatchCmd(ro *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "build or apply a change set against a register",
	}
	cmd.AddCommand(newPatchCreateCmd(ro))
	cmd.AddCommand(newPatchApplyCmd(ro))
	return cmd
}

type patchCreateOpts struct {
	rootOpts *rootOpts
	apply    bool
}

func newPatchCreateCmd(ro *rootOpts) *cobra.Command {
	opts := &patchCreateOpts{rootOpts: ro}
	cmd := &cobra.Command{
		Use:   "create <file> <xsv>",
		Short: "build a patch from a tabular file against a register's live schema",
		Long: `Reads <xsv> (CSV or TSV, dialect auto-detected), coerces each row against
<file>'s derived schema, and builds a Patch (spec.md §4.7). Without --apply
the patch's RSF commands are printed to stdout; with --apply they are instead
applied to the register and appended to <file>.`,
		Args: cobra.ExactArgs(2),
		RunE: opts.run,
	}
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "apply the patch to the register and append its commands to <file>")
	return cmd
}

func (opts *patchCreateOpts) run(cmd *cobra.Command, args []string) error {
	registerPath, xsvPath := args[0], args[1]

	r, err := loadRegister(registerPath, opts.rootOpts.cfg.RelaxedMode)
	if err != nil {
		return err
	}

	s, err := r.Schema()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(xsvPath)
	if err != nil {
		return fmt.Errorf("registers patch create: reading %s: %w", xsvPath, err)
	}

	blobs, err := xsv.Deserialise(data, s)
	if err != nil {
		return fmt.Errorf("registers patch create: coercing %s: %w", xsvPath, err)
	}

	ts := opts.rootOpts.cfg.DefaultTimestampSource().UTC().Format(time.RFC3339)
	p, err := patch.FromBlobs(s, blobs, ts)
	if err != nil {
		return err
	}

	if !opts.apply {
		fmt.Fprint(cmd.OutOrStdout(), rsf.Dump(p.Commands))
		return nil
	}

	if err := r.Apply(p); err != nil {
		return err
	}
	if err := appendCommands(registerPath, p.Commands); err != nil {
		return err
	}
	opts.rootOpts.log.Infof("applied patch of %d command(s) to %s", len(p.Commands), registerPath)
	return nil
}

type patchApplyOpts struct {
	rootOpts *rootOpts
}

func newPatchApplyCmd(ro *rootOpts) *cobra.Command {
	opts := &patchApplyOpts{rootOpts: ro}
	return &cobra.Command{
		Use:   "apply <file> <patch-rsf>",
		Short: "apply an existing RSF command sequence to a register as a patch",
		Args:  cobra.ExactArgs(2),
		RunE:  opts.run,
	}
}

func (opts *patchApplyOpts) run(cmd *cobra.Command, args []string) error {
	registerPath, patchPath := args[0], args[1]

	r, err := loadRegister(registerPath, opts.rootOpts.cfg.RelaxedMode)
	if err != nil {
		return err
	}

	s, err := r.Schema()
	if err != nil {
		return err
	}

	f, err := os.Open(patchPath)
	if err != nil {
		return fmt.Errorf("registers patch apply: opening %s: %w", patchPath, err)
	}
	defer f.Close()

	commands, err := rsf.Parse(f)
	if err != nil {
		return fmt.Errorf("registers patch apply: parsing %s: %w", patchPath, err)
	}

	p, err := patch.FromCommands(s, commands)
	if err != nil {
		return err
	}

	if err := r.Apply(p); err != nil {
		return err
	}
	if err := appendCommands(registerPath, p.Commands); err != nil {
		return err
	}
	opts.rootOpts.log.Infof("applied patch of %d command(s) to %s", len(p.Commands), registerPath)
	return nil
}
