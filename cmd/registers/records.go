package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openregister/registers-cli/pkg/record"
	"github.com/openregister/registers-cli/pkg/register"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/xsv"
)

type recordsOpts struct {
	rootOpts *rootOpts
	format   string
}

func newRecordsCmd(ro *rootOpts) *cobra.Command {
	opts := &recordsOpts{rootOpts: ro}
	cmd := &cobra.Command{
		Use:   "records <file>",
		Short: "print every current record in a register",
		Args:  cobra.ExactArgs(1),
		RunE:  opts.run,
	}
	cmd.Flags().StringVar(&opts.format, "format", "json", `output format: "json" or "csv"`)
	return cmd
}

func (opts *recordsOpts) run(cmd *cobra.Command, args []string) error {
	r, err := loadRegister(args[0], opts.rootOpts.cfg.RelaxedMode)
	if err != nil {
		return err
	}
	if !r.IsReady() {
		return &rerr.CommandError{Reason: "register is not ready: no schema with a primary key plus at least one attribute"}
	}

	records, err := r.Records()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch opts.format {
	case "json":
		return writeRecordsJSON(cmd, records, keys)
	case "csv":
		return writeRecordsCSV(cmd, r, records, keys)
	default:
		return fmt.Errorf("registers records: unknown --format %q (want \"json\" or \"csv\")", opts.format)
	}
}

func writeRecordsJSON(cmd *cobra.Command, records map[string]record.Record, keys []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "[")
	for i, k := range keys {
		if i > 0 {
			fmt.Fprint(out, ",")
		}
		out.Write(records[k].CanonicalJSON())
	}
	fmt.Fprintln(out, "]")
	return nil
}

func writeRecordsCSV(cmd *cobra.Command, r *register.Register, records map[string]record.Record, keys []string) error {
	s, err := r.Schema()
	if err != nil {
		return err
	}

	headers := []string{"index-entry-number", "entry-number", "entry-timestamp", "key"}
	for _, attr := range s.Attributes() {
		headers = append(headers, attr.UID)
	}

	ordered := make([]record.Record, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, records[k])
	}

	return xsv.SerialiseRecords(cmd.OutOrStdout(), ordered, headers)
}
