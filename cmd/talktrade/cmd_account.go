package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

var registerReq marketplace.RegisterRequest

// talktrade register
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.Register(ctx, registerReq)
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

var loginPassword string

// talktrade login <username>
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and keep the session for later commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			u, err := b.Login(ctx, marketplace.LoginRequest{Username: args[0], Password: loginPassword})
			if err != nil {
				return err
			}
			if b.remote != nil {
				if err := saveToken(b.remote.Session().Token()); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
			}
			fmt.Printf("Signed in as %s (%s)\n", u.Username, u.Role())
			return nil
		})
	},
}

// talktrade logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.Logout(ctx)
			if b.remote != nil {
				forgetToken()
			}
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

// talktrade whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			u, err := b.CurrentUser(ctx)
			if errors.Is(err, marketplace.ErrUnauthenticated) {
				fmt.Println("Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(u)
		})
	},
}

// talktrade seller-request
var sellerRequestCmd = &cobra.Command{
	Use:   "seller-request",
	Short: "Ask an admin for seller status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.RequestSeller(ctx)
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerReq.Username, "username", "", "username")
	f.StringVar(&registerReq.Email, "email", "", "email address")
	f.StringVar(&registerReq.Password, "password", "", "password")
	f.StringVar(&registerReq.Country, "country", "", "country")
	f.StringVar(&registerReq.Phone, "phone", "", "phone number")
	f.StringVar(&registerReq.Desc, "desc", "", "short bio")
	f.BoolVar(&registerReq.IsSeller, "seller", false, "request seller status")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("country")

	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("password")
}
