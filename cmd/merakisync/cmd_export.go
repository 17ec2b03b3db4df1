package main

import (
	"context"
	"fmt"

	"github.com/merakisync/merakisync/pkg/cli"
	"github.com/merakisync/merakisync/pkg/inventory"
)

// runExport writes every device of the selected organization to cfg.Output.
func runExport(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	org, err := selectOrganization(ctx, client, newResolver())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Getting networks for %s...\n", org.Name)
	fmt.Fprintf(stdout, "Writing to %s...\n", cfg.Output)

	exp := inventory.NewExporter(client, cfg.Concurrency)
	snap, err := exp.Export(ctx, org.ID, cfg.Output, cfg.Format)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if cfg.Verbose && len(snap.Networks) > 0 {
		t := cli.NewTable("NETWORK", "NAME", "DEVICES").WithWriter(stdout).WithPrefix("  ")
		for _, n := range snap.Networks {
			t.Row(n.Network.ID.String(), n.Network.Name, fmt.Sprintf("%d", n.Devices))
		}
		t.Flush()
	}

	fmt.Fprintln(stdout, green(fmt.Sprintf("Exported %d devices from %d networks.", len(snap.Rows), len(snap.Networks))))
	return nil
}
