package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openregister/registers-cli/pkg/config"
	"github.com/openregister/registers-cli/pkg/rlog"
)

// rootOpts bundles the state every subcommand needs, in the regctl
// rootOpts pattern: built once in newRootCmd and threaded through each
// subcommand's opts struct.
type rootOpts struct {
	cfgFile string
	cfg     *config.Config
	log     *rlog.Logger
	// runID tags a single CLI invocation's log lines, useful for
	// correlating the several subcommands a "patch create --apply" run
	// can emit (schema derivation, coercion, application).
	runID string
}

func newRootCmd() *cobra.Command {
	ro := &rootOpts{runID: uuid.New().String()}

	cmd := &cobra.Command{
		Use:           "registers",
		Short:         "inspect and mutate a register persisted as an RSF command stream",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ro.cfgFile)
			if err != nil {
				return err
			}
			ro.cfg = cfg
			ro.log = rlog.New(rlog.ParseLevel(cfg.LogLevel), rlog.WithPrefix("[registers "+ro.runID[:8]+"] "))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&ro.cfgFile, "config", "", "path to an optional YAML config file")

	cmd.AddCommand(newInitCmd(ro))
	cmd.AddCommand(newRecordsCmd(ro))
	cmd.AddCommand(newSchemaCmd(ro))
	cmd.AddCommand(newContextCmd(ro))
	cmd.AddCommand(newPatchCmd(ro))

	return cmd
}
