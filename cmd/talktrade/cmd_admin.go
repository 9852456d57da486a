package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// talktrade stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show marketplace totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			s, err := b.Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(s)
		})
	},
}

var sellersOnly bool

// talktrade users
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			users, err := b.ListUsers(ctx, sellersOnly)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%-38s %-20s %-7s %s\n", u.ID, u.Username, u.Role(), u.Email)
			}
			return nil
		})
	},
}

// talktrade sellers
var sellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "Review seller requests",
}

// talktrade sellers requests
var sellerRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List pending seller requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			users, err := b.SellerRequests(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%-38s %-20s %s\n", u.ID, u.Username, u.Email)
			}
			return nil
		})
	},
}

// talktrade sellers approve <user-id>
var sellerApproveCmd = &cobra.Command{
	Use:   "approve <user-id>",
	Short: "Grant seller status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.ApproveSeller(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

// talktrade sellers reject <user-id>
var sellerRejectCmd = &cobra.Command{
	Use:   "reject <user-id>",
	Short: "Turn down a seller request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.RejectSeller(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

var employeeReq marketplace.RegisterRequest

// talktrade sellers add
var sellerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account that is already an approved seller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			u, err := b.CreateEmployee(ctx, employeeReq)
			if err != nil {
				return err
			}
			fmt.Printf("Seller %s created with id %s\n", u.Username, u.ID)
			return nil
		})
	},
}

// talktrade promote-admin <email>
var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant admin rights directly in the local store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if remote {
			return errors.New("promote-admin works on the local store only")
		}
		return run(cmd, func(ctx context.Context, b *backend) error {
			u, err := b.local.PromoteAdmin(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("User %s promoted to admin.\n", u.Email)
			return nil
		})
	},
}

func init() {
	usersCmd.Flags().BoolVar(&sellersOnly, "sellers", false, "only sellers")

	sellersCmd.AddCommand(sellerRequestsCmd)
	sellersCmd.AddCommand(sellerApproveCmd)
	sellersCmd.AddCommand(sellerRejectCmd)
	sellersCmd.AddCommand(sellerAddCmd)

	f := sellerAddCmd.Flags()
	f.StringVar(&employeeReq.Username, "username", "", "username")
	f.StringVar(&employeeReq.Email, "email", "", "email address")
	f.StringVar(&employeeReq.Password, "password", "", "password")
	f.StringVar(&employeeReq.Country, "country", "", "country")
	f.StringVar(&employeeReq.Phone, "phone", "", "phone number")
	f.StringVar(&employeeReq.Desc, "desc", "", "short bio")
}
