package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/apikey"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// KeyStore is the slice of store.Store the keys subcommands use.
type KeyStore interface {
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}

// KeyStoreOpener connects to the key store. The returned func releases it.
type KeyStoreOpener func(ctx context.Context, databaseURL string) (KeyStore, func(), error)

// PostgresKeys opens a small pool against databaseURL and applies no migrations.
func PostgresKeys(ctx context.Context, databaseURL string) (KeyStore, func(), error) {
	pool, err := store.Connect(ctx, config.DatabaseConfig{
		URL:             databaseURL,
		MaxOpenConns:    2,
		MaxIdleConns:    0,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

func newKeysCmd(open KeyStoreOpener) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys for the default tenant",
	}

	// withStore resolves the tenant and hands the store to fn.
	withStore := func(cmd *cobra.Command, fn func(ctx context.Context, s KeyStore, tenantID uuid.UUID) error) error {
		url, err := databaseURL(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		s, closeFn, err := open(ctx, url)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer closeFn()

		tenant, err := s.GetDefaultTenant(ctx)
		if err != nil {
			return fmt.Errorf("load default tenant: %w", err)
		}
		return fn(ctx, s, tenant.ID)
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key; the raw key is printed once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			scopes, _ := cmd.Flags().GetStringSlice("scopes")
			return withStore(cmd, func(ctx context.Context, s KeyStore, tenantID uuid.UUID) error {
				raw, key, err := apikey.New(tenantID, name, scopes)
				if err != nil {
					return err
				}
				if err := s.CreateAPIKey(ctx, key); err != nil {
					return fmt.Errorf("error creating key: %w", err)
				}
				return printJSON(cmd, map[string]any{
					"id":     key.ID,
					"name":   key.Name,
					"key":    raw,
					"scopes": key.Scopes,
				})
			})
		},
	}
	createCmd.Flags().StringP("name", "n", "", "Key name, unique per tenant")
	createCmd.Flags().StringSlice("scopes", []string{models.ScopeRead}, "Comma separated scopes: read, write, admin")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List active API keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, s KeyStore, tenantID uuid.UUID) error {
				keys, err := s.ListAPIKeys(ctx, tenantID)
				if err != nil {
					return fmt.Errorf("error listing keys: %w", err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPREFIX\tSCOPES\tLAST USED")
				for _, k := range keys {
					lastUsed := "never"
					if k.LastUsedAt != nil {
						lastUsed = k.LastUsedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.ID, k.Name, k.KeyPrefix, strings.Join(k.Scopes, ","), lastUsed)
				}
				return tw.Flush()
			})
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("id")
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid key id %q: %w", raw, err)
			}
			return withStore(cmd, func(ctx context.Context, s KeyStore, tenantID uuid.UUID) error {
				if err := s.RevokeAPIKey(ctx, id, tenantID); err != nil {
					return fmt.Errorf("error revoking key: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Key revoked successfully")
				return nil
			})
		},
	}
	revokeCmd.Flags().StringP("id", "i", "", "ID of the key to revoke")
	_ = revokeCmd.MarkFlagRequired("id")

	keysCmd.AddCommand(createCmd, listCmd, revokeCmd)
	return keysCmd
}
