package main

import (
	"fmt"
	"os"

	"github.com/openregister/registers-cli/pkg/register"
	"github.com/openregister/registers-cli/pkg/rsf"
)

// loadRegister reads and parses an RSF file and replays it into a Register.
// relaxed is passed straight through to the log collector so historical
// registers that carry duplicate entries still load (spec.md §4.4).
func loadRegister(path string, relaxed bool) (*register.Register, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	commands, err := rsf.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	r, err := register.Load(commands, relaxed)
	if err != nil {
		return nil, fmt.Errorf("loading register from %s: %w", path, err)
	}
	return r, nil
}

// appendCommands renders commands in RSF wire form and appends them to the
// file at path, which must already hold a well-formed RSF stream.
func appendCommands(path string, commands []rsf.Command) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(rsf.Dump(commands)); err != nil {
		return fmt.Errorf("writing to %s: %w", path, err)
	}
	return nil
}
