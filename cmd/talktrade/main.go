// Command talktrade drives the marketplace from a terminal, either against
// the local store or, with --remote, against a running API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/client"
	"github.com/sudo-init-do/talktrade/internal/config"
	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
	"github.com/sudo-init-do/talktrade/internal/store"
)

var (
	remote  bool
	apiURL  string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "talktrade",
	Short:         "talktrade marketplace CLI",
	Long:          "Browse gigs, manage your account and run admin tasks against the local store or a talktrade server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetupCLI(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "talk to the API server instead of the local store")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $TALKTRADE_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	// Data
	rootCmd.AddCommand(seedCmd)

	// Account
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(sellerRequestCmd)

	// Marketplace
	rootCmd.AddCommand(gigsCmd)
	rootCmd.AddCommand(favouritesCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(ordersCmd)

	// Admin
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(sellersCmd)
	rootCmd.AddCommand(promoteAdminCmd)
}

// backend is the Service a command runs against plus what only one of the
// two modes can do.
type backend struct {
	marketplace.Service
	local  *marketplace.Local
	remote *client.Client
	close  func()
}

// boot opens the configured backend. Local mode resumes the session kept in
// the store; remote mode resumes the token saved by the last login.
func boot(ctx context.Context) (*backend, error) {
	cfg := config.Load()

	if remote {
		base := apiURL
		if base == "" {
			base = cfg.APIURL
		}
		c := client.New(base)
		if err := resumeRemote(ctx, c); err != nil {
			return nil, err
		}
		return &backend{Service: c, remote: c, close: func() {}}, nil
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	l := marketplace.NewLocal(st,
		marketplace.WithDurableSession(),
		marketplace.WithAdminPassword(cfg.AdminPassword),
	)
	if err := l.Bootstrap(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return &backend{Service: l, local: l, close: func() { _ = st.Close() }}, nil
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "talktrade", "token"), nil
}

func resumeRemote(ctx context.Context, c *client.Client) error {
	path, err := tokenPath()
	if err != nil {
		return nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read saved token: %w", err)
	}
	if _, err := c.Resume(ctx, string(raw)); err != nil {
		if errors.Is(err, marketplace.ErrUnauthenticated) {
			logger.Debug("saved token rejected, signing out", "path", path)
			_ = os.Remove(path)
			return nil
		}
		return err
	}
	return nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func forgetToken() {
	if path, err := tokenPath(); err == nil {
		_ = os.Remove(path)
	}
}

// run boots the backend, hands it to fn and closes it afterwards.
func run(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := boot(ctx)
	if err != nil {
		return err
	}
	defer b.close()
	return fn(ctx, b)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
