package main

import (
	"context"
	"fmt"

	"github.com/merakisync/merakisync/pkg/config"
	"github.com/merakisync/merakisync/pkg/reconcile"
	"github.com/merakisync/merakisync/pkg/sheet"
	"github.com/merakisync/merakisync/pkg/util"
)

// runUpdate applies cfg.File to the dashboard. Per-row problems are printed
// and do not change the exit status.
func runUpdate(ctx context.Context, mode config.Mode) error {
	fmt.Fprintf(stdout, "Reading from %s...\n", cfg.File)
	rows, header, err := sheet.ReadUpdatesFile(cfg.File)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	opts := reconcile.Options{
		MultiNetwork: mode == config.ModeMultiUpdate,
		DryRun:       cfg.DryRun,
		Progress:     &reconcile.ConsoleProgress{W: stdout},
	}

	if opts.MultiNetwork {
		if !header.Has(sheet.ColNetworkID) {
			util.Warnf("%s has no %s column, every row will be skipped", cfg.File, sheet.ColNetworkID)
		}
	} else {
		if header.Has(sheet.ColNetworkID) {
			util.Debugf("%s column ignored in single-network mode", sheet.ColNetworkID)
		}

		fmt.Fprintln(stdout, "Getting organizations for this account...")
		r := newResolver()
		org, err := selectOrganization(ctx, client, r)
		if err != nil {
			return err
		}
		net, err := selectNetwork(ctx, client, r, org)
		if err != nil {
			return err
		}
		opts.NetworkID = net.ID
		util.WithNetwork(net.ID).Infof("updating network %s", net.Name)
	}

	if logger := openAudit(); logger != nil {
		defer logger.Close()
		opts.Audit = logger
	}

	rec, err := reconcile.New(client, opts)
	if err != nil {
		return err
	}
	_, err = rec.Run(ctx, rows)
	return err
}
