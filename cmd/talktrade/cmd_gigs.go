package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

var (
	gigCategory string
	gigSearch   string
	gigSort     string
	gigUser     string
	gigMin      int64
	gigMax      int64
)

// talktrade gigs
var gigsCmd = &cobra.Command{
	Use:   "gigs",
	Short: "List gigs",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := marketplace.GigFilter{
			Category: marketplace.Category(gigCategory),
			Search:   gigSearch,
			Sort:     marketplace.SortKey(gigSort),
			UserID:   gigUser,
		}
		if cmd.Flags().Changed("min") {
			filter.Min = &gigMin
		}
		if cmd.Flags().Changed("max") {
			filter.Max = &gigMax
		}
		return run(cmd, func(ctx context.Context, b *backend) error {
			gigs, err := b.ListGigs(ctx, filter)
			if err != nil {
				return err
			}
			for _, g := range gigs {
				fmt.Printf("%-6s %-12s %8d  %.1f★  %s\n", g.ID, g.Category, g.Price, g.Rating(), g.Title)
			}
			return nil
		})
	},
}

// talktrade gigs show <id>
var gigShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one gig",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			g, err := b.GetGig(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(g)
		})
	},
}

// talktrade gigs mine
var gigMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the signed-in seller's gigs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			gigs, err := b.GetMyGigs(ctx)
			if err != nil {
				return err
			}
			return printJSON(gigs)
		})
	},
}

// talktrade gigs delete <id>
var gigDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a gig and its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.DeleteGig(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

// talktrade favourites
var favouritesCmd = &cobra.Command{
	Use:   "favourites",
	Short: "List favourite gigs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			gigs, err := b.GetFavouriteGigs(ctx)
			if err != nil {
				return err
			}
			for _, g := range gigs {
				fmt.Printf("%-6s %s\n", g.ID, g.Title)
			}
			return nil
		})
	},
}

// talktrade favourites toggle <gig-id>
var favouriteToggleCmd = &cobra.Command{
	Use:   "toggle <gig-id>",
	Short: "Add or remove a gig from favourites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			favs, err := b.ToggleFavouriteGig(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(favs)
		})
	},
}

// talktrade reviews <gig-id>
var reviewsCmd = &cobra.Command{
	Use:   "reviews <gig-id>",
	Short: "List a gig's reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			reviews, err := b.GetReviews(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(reviews)
		})
	},
}

func init() {
	f := gigsCmd.Flags()
	f.StringVar(&gigCategory, "category", "", "category filter")
	f.StringVar(&gigSearch, "search", "", "match gig titles containing this text")
	f.StringVar(&gigSort, "sort", "", "createdAt, sales, rating, price_asc or price_desc")
	f.StringVar(&gigUser, "user", "", "only gigs by this seller id")
	f.Int64Var(&gigMin, "min", 0, "minimum price")
	f.Int64Var(&gigMax, "max", 0, "maximum price")

	gigsCmd.AddCommand(gigShowCmd)
	gigsCmd.AddCommand(gigMineCmd)
	gigsCmd.AddCommand(gigDeleteCmd)
	favouritesCmd.AddCommand(favouriteToggleCmd)
}
