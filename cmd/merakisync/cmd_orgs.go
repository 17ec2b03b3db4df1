package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/merakisync/merakisync/pkg/cli"
	"github.com/merakisync/merakisync/pkg/selector"
)

var jsonOutput bool

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Aliases: []string{"organizations"},
	Short:   "List organizations visible to the API key",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer writeMetrics()

		client, err := newClient()
		if err != nil {
			return err
		}
		orgs, err := client.ListOrganizations(cmd.Context())
		if err != nil {
			return fmt.Errorf("unable to retrieve organizations: %w", err)
		}

		candidates := selector.FromOrganizations(orgs)
		if jsonOutput {
			return printJSON(candidates)
		}
		printCandidates(candidates, "organizations")
		return nil
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List networks of an organization",
	Long: `List networks of an organization.

The organization is taken from --org or the settings file; when neither is
set and several organizations are visible, you are asked to pick one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer writeMetrics()
		ctx := cmd.Context()

		client, err := newClient()
		if err != nil {
			return err
		}
		org, err := selectOrganization(ctx, client, newResolver())
		if err != nil {
			return err
		}
		nets, err := client.ListNetworks(ctx, org.ID)
		if err != nil {
			return fmt.Errorf("unable to retrieve networks: %w", err)
		}

		candidates := selector.FromNetworks(nets)
		if jsonOutput {
			return printJSON(candidates)
		}
		fmt.Fprintf(stdout, "Organization: %s [%s]\n\n", org.Name, org.ID)
		printCandidates(candidates, "networks")
		return nil
	},
}

func printCandidates(candidates []selector.Candidate, kind string) {
	if len(candidates) == 0 {
		fmt.Fprintf(stdout, "No %s found\n", kind)
		return
	}
	t := cli.NewTable("KEY", "ID", "NAME").WithWriter(stdout)
	for _, c := range candidates {
		t.Row(fmt.Sprintf("%d", c.Key), c.ID, c.Name)
	}
	t.Flush()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, cmd := range []*cobra.Command{orgsCmd, networksCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	}
}
