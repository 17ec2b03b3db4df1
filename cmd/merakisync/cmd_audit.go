package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/merakisync/merakisync/pkg/audit"
	"github.com/merakisync/merakisync/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of device updates.

Every row that reached the update step is logged with:
  - Timestamp and run id
  - User who ran the update
  - Device serial and network
  - Attributes sent
  - Outcome (ok, failed, dry-run)

Examples:
  merakisync audit list --serial Q2XX-1111-2222
  merakisync audit list --last 24h
  merakisync audit list --failures`,
}

var (
	auditSerial   string
	auditNetwork  string
	auditRun      string
	auditLast     string
	auditLimit    int
	auditFailures bool
	auditJSON     bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Serial:      auditSerial,
			NetworkID:   auditNetwork,
			RunID:       auditRun,
			FailureOnly: auditFailures,
		}

		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.ReadFile(cfg.AuditLog, filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}
		// Most recent last, limited to the newest entries.
		if auditLimit > 0 && len(events) > auditLimit {
			events = events[len(events)-auditLimit:]
		}

		if auditJSON {
			return printJSON(events)
		}

		if len(events) == 0 {
			fmt.Fprintln(stdout, "No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "USER", "SERIAL", "NETWORK", "CHANGES", "STATUS").WithWriter(stdout)
		for _, event := range events {
			status := green("ok")
			if !event.Success {
				status = red("failed")
			}
			if event.DryRun {
				status = yellow("dry-run")
			}

			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Serial,
				event.NetworkID,
				formatChanges(event.Changes),
				status,
			)
		}
		t.Flush()

		return nil
	},
}

// formatChanges renders changes as sorted key=value pairs.
func formatChanges(changes map[string]string) string {
	if len(changes) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + changes[k]
	}
	return strings.Join(parts, " ")
}

func init() {
	auditListCmd.Flags().StringVar(&auditSerial, "serial", "", "Filter by device serial")
	auditListCmd.Flags().StringVar(&auditNetwork, "network", "", "Filter by network id")
	auditListCmd.Flags().StringVar(&auditRun, "run", "", "Filter by run id")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h, 90m)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed updates")
	auditListCmd.Flags().BoolVar(&auditJSON, "json", false, "Output as JSON")

	auditCmd.AddCommand(auditListCmd)
}
