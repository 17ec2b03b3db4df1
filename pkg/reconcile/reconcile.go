// Package reconcile applies a batch of desired device states to the
// dashboard. Rows are independent: each one is resolved, fetched, merged and
// applied on its own, and a failing row never stops the batch.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merakisync/merakisync/pkg/audit"
	"github.com/merakisync/merakisync/pkg/dashboard"
	"github.com/merakisync/merakisync/pkg/metrics"
	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

// DeviceAPI is the part of the dashboard client the reconciler needs.
type DeviceAPI interface {
	GetDevice(ctx context.Context, networkID, serial string) (*model.Device, error)
	UpdateDevice(ctx context.Context, networkID, serial string, payload interface{}) (*dashboard.UpdateResponse, error)
}

// Status is the outcome of one row.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped" // row never reached the update call
	StatusFailed  Status = "failed"  // update call made but not accepted
	StatusPreview Status = "preview" // dry-run: payload built, not sent
)

// Result describes what happened to one row.
type Result struct {
	Row        model.UpdateRow
	NetworkID  string
	Status     Status
	Reason     string
	Payload    *Payload
	StatusCode int
	Body       string
	Duration   time.Duration
}

// Summary is the outcome of a batch.
type Summary struct {
	RunID     string
	Results   []*Result
	Updated   int
	Skipped   int
	Failed    int
	Previewed int
	Duration  time.Duration
}

// Total returns the number of rows processed.
func (s *Summary) Total() int {
	return len(s.Results)
}

func (s *Summary) add(r *Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusPreview:
		s.Previewed++
	}
}

// Options configures a Reconciler.
type Options struct {
	// NetworkID is the network every row is applied to. Required unless
	// MultiNetwork is set.
	NetworkID string

	// MultiNetwork takes the network from each row's network_id instead.
	MultiNetwork bool

	// DryRun builds payloads without sending them.
	DryRun bool

	// Progress receives per-row callbacks. Optional.
	Progress ProgressReporter

	// Audit records every row that reached the apply step. Optional.
	Audit audit.Logger
}

// Reconciler applies update rows one at a time, in order.
type Reconciler struct {
	api  DeviceAPI
	opts Options
}

// New creates a Reconciler.
func New(api DeviceAPI, opts Options) (*Reconciler, error) {
	if !opts.MultiNetwork && opts.NetworkID == "" {
		return nil, fmt.Errorf("single-network update requires a network: %w", util.ErrInvalidInput)
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	return &Reconciler{api: api, opts: opts}, nil
}

// Run processes rows in order. Per-row problems are reported in the summary;
// the only error returned is the context's, when the run was interrupted.
// The summary then covers the rows completed before the interruption.
func (r *Reconciler) Run(ctx context.Context, rows []model.UpdateRow) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	r.opts.Progress.BatchStart(len(rows), r.opts.DryRun)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		r.opts.Progress.RowStart(row, i, len(rows))
		res := r.applyRow(ctx, row)
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		summary.add(res)
		metrics.ObserveRow(string(res.Status))
		r.record(summary.RunID, res)
		r.opts.Progress.RowEnd(res, i, len(rows))
	}

	summary.Duration = time.Since(start)
	r.opts.Progress.BatchEnd(summary)
	return summary, nil
}

// applyRow walks one row through resolve, fetch, build and apply.
func (r *Reconciler) applyRow(ctx context.Context, row model.UpdateRow) *Result {
	start := time.Now()
	res := &Result{Row: row}
	defer func() { res.Duration = time.Since(start) }()

	log := util.WithSerial(row.Serial).WithField("line", row.Line)

	if row.Serial == "" {
		res.Status = StatusSkipped
		res.Reason = fmt.Sprintf("line %d has no serial", row.Line)
		log.Warn(res.Reason)
		return res
	}

	netID := r.opts.NetworkID
	if r.opts.MultiNetwork {
		netID = row.NetworkID
		if netID == "" {
			res.Status = StatusSkipped
			res.Reason = "network not specified in file"
			log.Warn(res.Reason)
			return res
		}
	}
	res.NetworkID = netID
	log = log.WithField("network_id", netID)

	current, err := r.api.GetDevice(ctx, netID, row.Serial)
	if err != nil {
		res.Status = StatusSkipped
		if errors.Is(err, util.ErrNotFound) {
			res.Reason = fmt.Sprintf("device %s not found in network %s", row.Serial, netID)
		} else {
			res.Reason = fmt.Sprintf("fetching device %s: %v", row.Serial, err)
		}
		log.WithError(err).Warn("device lookup failed")
		return res
	}

	payload := BuildPayload(row, current)
	res.Payload = &payload

	if r.opts.DryRun {
		res.Status = StatusPreview
		log.Debug("dry-run: update not sent")
		return res
	}

	resp, err := r.api.UpdateDevice(ctx, netID, row.Serial, payload)
	if err != nil {
		res.Status = StatusFailed
		res.Reason = fmt.Sprintf("cannot update device %s: %v", row.Serial, err)
		log.WithError(err).Warn("update request failed")
		return res
	}

	res.StatusCode = resp.StatusCode
	res.Body = resp.Body
	if !resp.OK() {
		res.Status = StatusFailed
		res.Reason = fmt.Sprintf("update rejected with status %d", resp.StatusCode)
		log.WithField("status", resp.StatusCode).Warn("update rejected")
		return res
	}

	res.Status = StatusUpdated
	log.Debug("device updated")
	return res
}

// record writes an audit event for rows that reached the apply step.
func (r *Reconciler) record(runID string, res *Result) {
	if r.opts.Audit == nil || res.Payload == nil {
		return
	}

	event := audit.NewEvent(runID, audit.OpDeviceUpdate, res.Row.Serial).
		WithNetwork(res.NetworkID).
		WithChanges(res.Payload.Changes()).
		WithStatus(res.StatusCode).
		WithDryRun(res.Status == StatusPreview).
		WithDuration(res.Duration)

	switch res.Status {
	case StatusUpdated:
		event.WithSuccess()
	case StatusFailed:
		msg := res.Reason
		if res.Body != "" {
			msg += ": " + res.Body
		}
		event.WithError(msg)
	}

	if err := r.opts.Audit.Log(event); err != nil {
		util.Warnf("audit: could not record update of %s: %v", res.Row.Serial, err)
	}
}
