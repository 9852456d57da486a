package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// talktrade seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the sample sellers, gigs and admin account if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if remote {
			return fmt.Errorf("seed works on the local store only")
		}
		// boot runs Bootstrap, which is the seeding step
		return run(cmd, func(ctx context.Context, b *backend) error {
			gigs, err := b.ListGigs(ctx, marketplace.GigFilter{})
			if err != nil {
				return err
			}
			fmt.Printf("Store ready with %d gigs.\n", len(gigs))
			return nil
		})
	},
}
