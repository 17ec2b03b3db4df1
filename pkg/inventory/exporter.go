// Package inventory snapshots every device across every network of an
// organization into flat export rows.
package inventory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/merakisync/merakisync/pkg/metrics"
	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/sheet"
	"github.com/merakisync/merakisync/pkg/util"
)

// Directory is the part of the dashboard client the exporter reads from.
type Directory interface {
	ListNetworks(ctx context.Context, orgID string) ([]model.Network, error)
	ListDevices(ctx context.Context, networkID string) ([]model.Device, error)
}

// Exporter walks an organization's networks and lists their devices.
type Exporter struct {
	dir         Directory
	concurrency int
}

// NewExporter creates an exporter. concurrency bounds how many networks are
// listed at once; values below 1 mean one at a time.
func NewExporter(dir Directory, concurrency int) *Exporter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Exporter{dir: dir, concurrency: concurrency}
}

// NetworkCount is the number of devices found in one network.
type NetworkCount struct {
	Network model.Network
	Devices int
}

// Snapshot is the collected inventory of one organization.
type Snapshot struct {
	Networks []NetworkCount
	Rows     []model.ExportRow
}

// Collect lists every network of orgID and every device of each network.
// Rows are ordered by network (API order), then device (API order), and each
// row carries the id of the network it was listed from. Any listing failure
// aborts the whole collection.
func (e *Exporter) Collect(ctx context.Context, orgID string) (*Snapshot, error) {
	nets, err := e.dir.ListNetworks(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}
	if len(nets) == 0 {
		util.WithField("organization", orgID).Warn("organization has no networks")
	}

	perNetwork := make([][]model.ExportRow, len(nets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, n := range nets {
		g.Go(func() error {
			netID := n.ID.String()
			devices, err := e.dir.ListDevices(gctx, netID)
			if err != nil {
				return fmt.Errorf("listing devices of network %s (%s): %w", netID, n.Name, err)
			}
			rows := make([]model.ExportRow, len(devices))
			for j, d := range devices {
				rows[j] = model.NewExportRow(d, netID)
			}
			perNetwork[i] = rows
			util.WithNetwork(netID).Debugf("listed %d devices", len(devices))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Networks: make([]NetworkCount, len(nets))}
	for i, rows := range perNetwork {
		snap.Networks[i] = NetworkCount{Network: nets[i], Devices: len(rows)}
		snap.Rows = append(snap.Rows, rows...)
	}
	return snap, nil
}

// Export collects the inventory of orgID and replaces path with it. Nothing
// is written unless collection succeeded completely.
func (e *Exporter) Export(ctx context.Context, orgID, path string, format sheet.Format) (*Snapshot, error) {
	snap, err := e.Collect(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := sheet.WriteFile(path, format, snap.Rows); err != nil {
		return nil, err
	}
	metrics.ObserveExport(len(snap.Rows))
	return snap, nil
}
