package main

import (
	"context"
	"fmt"

	"github.com/merakisync/merakisync/pkg/audit"
	"github.com/merakisync/merakisync/pkg/cli"
	"github.com/merakisync/merakisync/pkg/dashboard"
	"github.com/merakisync/merakisync/pkg/metrics"
	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/selector"
	"github.com/merakisync/merakisync/pkg/util"
)

// newClient creates a dashboard client from the run configuration.
func newClient() (*dashboard.Client, error) {
	if err := cfg.RequireKey(); err != nil {
		return nil, err
	}
	return dashboard.New(cfg.ClientConfig())
}

// newResolver returns a resolver that prompts on the terminal.
func newResolver() *selector.Resolver {
	return &selector.Resolver{Chooser: selector.NewPromptChooser(stdin, stdout)}
}

// directory is the listing part of the dashboard client.
type directory interface {
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	ListNetworks(ctx context.Context, orgID string) ([]model.Network, error)
}

// selectOrganization lists organizations and resolves one. Listing failures
// are fatal.
func selectOrganization(ctx context.Context, dir directory, r *selector.Resolver) (selector.Candidate, error) {
	orgs, err := dir.ListOrganizations(ctx)
	if err != nil {
		return selector.Candidate{}, fmt.Errorf("unable to retrieve organizations: %w", err)
	}
	return r.Resolve(ctx, "organization", selector.FromOrganizations(orgs), cfg.Organization)
}

// selectNetwork lists the networks of org and resolves one.
func selectNetwork(ctx context.Context, dir directory, r *selector.Resolver, org selector.Candidate) (selector.Candidate, error) {
	fmt.Fprintf(stdout, "Getting networks for %s...\n", org.Name)
	nets, err := dir.ListNetworks(ctx, org.ID)
	if err != nil {
		return selector.Candidate{}, fmt.Errorf("unable to retrieve networks: %w", err)
	}
	return r.Resolve(ctx, "network", selector.FromNetworks(nets), cfg.Network)
}

// openAudit opens the audit log. A log that cannot be opened disables
// auditing for the run rather than failing it.
func openAudit() audit.Logger {
	if cfg.NoAudit || cfg.AuditLog == "" {
		return nil
	}
	logger, err := audit.NewFileLogger(cfg.AuditLog, audit.DefaultRotation)
	if err != nil {
		util.Warnf("Could not initialize audit logging: %v", err)
		return nil
	}
	return logger
}

// writeMetrics dumps the run's metrics when --metrics-file is set.
func writeMetrics() {
	if cfg == nil || cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		util.Warnf("Could not write metrics to %s: %v", cfg.MetricsFile, err)
	}
}

func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
