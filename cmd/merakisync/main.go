// merakisync - Meraki device metadata sync
//
// Keeps the name, tags, location and address of dashboard devices in step
// with a spreadsheet, or exports every device of an organization to one.
//
// Modes (selected by flags on the root command):
//
//	merakisync -k KEY -f updates.csv          # update devices of one network
//	merakisync -k KEY -m -f updates.csv       # each row names its network_id
//	merakisync -k KEY -g -o devices.csv       # export the whole organization
//
// Blank cells in the update file leave the attribute unchanged. When several
// organizations or networks are visible the operator is asked to pick one,
// unless --org / --network (or the persisted settings) already name it.
//
// Helper commands:
//
//	merakisync orgs                           # organizations visible to the key
//	merakisync networks                       # networks of the selected organization
//	merakisync settings set network Branch    # persist a default
//	merakisync audit list --last 24h          # applied updates
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/merakisync/merakisync/pkg/config"
	"github.com/merakisync/merakisync/pkg/dashboard"
	"github.com/merakisync/merakisync/pkg/settings"
	"github.com/merakisync/merakisync/pkg/util"
	"github.com/merakisync/merakisync/pkg/version"
)

// exitCancelled is the conventional status for termination by SIGINT.
const exitCancelled = 130

var (
	// Global state, set once in PersistentPreRunE
	cfg          *config.Config
	userSettings *settings.Settings

	// Terminal streams, replaced in tests
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode reports err and maps it to a process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, util.ErrCancelled) {
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "User cancelled, exiting.")
		return exitCancelled
	}

	var usage *util.UsageError
	if errors.As(err, &usage) {
		fmt.Fprint(stderr, rootCmd.UsageString())
		fmt.Fprintln(stderr)
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

var rootCmd = &cobra.Command{
	Use:               "merakisync",
	Short:             "Sync Meraki device metadata with a spreadsheet",
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `merakisync updates device name, tags, lat, lng and address from a CSV file,
or exports every device of an organization to a file.

Blank cells leave the attribute unchanged. Rows are applied one at a time;
a row that cannot be applied is reported and the batch continues.

  merakisync -k KEY -f updates.csv        single-network update
  merakisync -k KEY -m -f updates.csv     multi-network update (network_id column)
  merakisync -k KEY -g -o devices.csv     export`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isSettingsOrHelp(cmd) {
			return nil
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		cfg, err = config.Load(cmd.Flags(), userSettings)
		if err != nil {
			return err
		}

		if cfg.Verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if cfg.LogJSON {
			util.SetJSONFormat()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if ver, _ := cmd.Flags().GetBool("ver"); ver {
			fmt.Fprintf(stdout, "merakisync %s\n", version.Short())
			return nil
		}

		mode, err := cfg.Mode()
		if err != nil {
			return err
		}
		defer writeMetrics()

		util.WithOperation(mode.String()).Debug("starting")
		if mode == config.ModeExport {
			return runExport(cmd.Context())
		}
		return runUpdate(cmd.Context(), mode)
	},
}

func init() {
	// Credential and endpoint (shared by every command that talks to the API)
	pf := rootCmd.PersistentFlags()
	pf.StringP("key", "k", "", "Dashboard API key (or "+config.EnvPrefix+"_API_KEY)")
	pf.String("base-url", "", "API base URL (default "+dashboard.DefaultBaseURL+")")
	pf.String("org", "", "Organization id or name (skips the prompt)")
	pf.Float64("rate-limit", dashboard.DefaultRateLimit, "Maximum requests per second (0 = unlimited)")
	pf.Duration("timeout", 0, "Per-request timeout (0 = none)")

	// Diagnostics
	pf.String("audit-log", "", "Audit log path (default ~/.merakisync/audit.log)")
	pf.Bool("no-audit", false, "Do not record applied updates")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	pf.Bool("verbose", false, "Verbose output")
	pf.Bool("log-json", false, "Log diagnostics as JSON")

	// Mode flags (root only)
	f := rootCmd.Flags()
	f.StringP("file", "f", "", "CSV file of device updates")
	f.BoolP("multinetwork", "m", false, "Take each row's network from its network_id column")
	f.BoolP("get", "g", false, "Export all devices of the organization")
	f.StringP("output", "o", "", "Export destination file (replaced)")
	f.String("format", "csv", "Export format: csv, json or yaml")
	f.Int("concurrency", 1, "Networks listed in parallel during export")
	f.String("network", "", "Network id or name for single-network update (skips the prompt)")
	f.Bool("dry-run", false, "Fetch devices and show payloads without sending updates")
	f.Bool("ver", false, "Print version information")
	f.MarkHidden("ver")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return util.NewUsageError("%v", err)
	})

	// -v/--version print the version, so verbose has no shorthand.
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("merakisync {{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Dashboard Queries:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{orgsCmd, networksCmd} {
		cmd.GroupID = "query"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "merakisync %s\n", version.Short())
	},
}

// isSettingsOrHelp reports whether cmd runs without a loaded configuration.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}
