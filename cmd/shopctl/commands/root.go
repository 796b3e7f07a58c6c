// Package commands implements the shopctl subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// flag names
const (
	flagFile        = "file"
	flagDatabaseURL = "database-url"
)

// environment variable names
const (
	envDatabaseURL = "DATABASE_URL"
)

// NewRootCmd builds the command tree. openKeys connects the keys
// subcommands to their store.
func NewRootCmd(openKeys KeyStoreOpener) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopctl",
		Short: "shopctl - work-order and inspection tooling",
		Long: `shopctl sorts jobs, estimates labor and prices inspections from JSON files,
and manages API keys for the shopfloor server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String(flagDatabaseURL, "", "Postgres URL for key management (env: DATABASE_URL)")

	root.AddCommand(newSortCmd())
	root.AddCommand(newLaborCmd())
	root.AddCommand(newQuoteCmd())
	root.AddCommand(newKeysCmd(openKeys))
	return root
}

// readJSON decodes the file named by --file, or stdin when it is "-".
func readJSON(cmd *cobra.Command, v any) error {
	path, _ := cmd.Flags().GetString(flagFile)
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// printJSON pretty prints v to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}

// databaseURL resolves the database URL: flag, then environment.
func databaseURL(cmd *cobra.Command) (string, error) {
	url, _ := cmd.Flags().GetString(flagDatabaseURL)
	if url == "" {
		url = os.Getenv(envDatabaseURL)
	}
	if url == "" {
		return "", fmt.Errorf("database URL is required: set --%s or %s", flagDatabaseURL, envDatabaseURL)
	}
	return url, nil
}
