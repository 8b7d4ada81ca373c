package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
	"github.com/openregister/registers-cli/pkg/rsf"
)

type initOpts struct {
	rootOpts *rootOpts
	uid      string
}

func newInitCmd(ro *rootOpts) *cobra.Command {
	opts := &initOpts{rootOpts: ro}
	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "create a new, empty register RSF file",
		Long: `Writes the single-line empty-root assertion that is a freshly created
register's entire persisted state (spec.md §6, "Persisted state"). With
--uid, a name metadata entry is appended so the register is immediately
identified.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run,
	}
	cmd.Flags().StringVar(&opts.uid, "uid", "", "register identifier to record as the initial name metadata entry")
	return cmd
}

func (opts *initOpts) run(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("registers init: %s already exists", path)
	}

	commands := []rsf.Command{rsf.NewAssertRootHash(hash.Empty)}

	if opts.uid != "" {
		b := blob.New(map[string]blob.Value{"name": blob.String(opts.uid)})
		ts := opts.rootOpts.cfg.DefaultTimestampSource().UTC().Format(time.RFC3339)
		e, err := entry.New("name", entry.System, ts, b.Digest())
		if err != nil {
			return err
		}
		commands = append(commands, rsf.NewAddItem(b), rsf.NewAppendEntry(e))
	}

	if err := os.WriteFile(path, []byte(rsf.Dump(commands)), 0o644); err != nil {
		return fmt.Errorf("registers init: writing %s: %w", path, err)
	}

	opts.rootOpts.log.Infof("initialised %s", path)
	return nil
}
