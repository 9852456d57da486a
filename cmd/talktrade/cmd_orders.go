package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// talktrade orders
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the signed-in user's orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			orders, err := b.GetOrders(ctx)
			if err != nil {
				return err
			}
			for _, o := range orders {
				state := "open"
				if o.IsCompleted {
					state = "completed"
				}
				fmt.Printf("%-10s %-9s %8d  %s\n", o.ID, state, o.Price, o.Title)
			}
			return nil
		})
	},
}

// talktrade orders place <gig-id>
var orderPlaceCmd = &cobra.Command{
	Use:   "place <gig-id>",
	Short: "Order a gig",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			o, err := b.CreateOrder(ctx, marketplace.CreateOrderRequest{GigID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(o)
		})
	},
}

// talktrade orders confirm <order-id>
var orderConfirmCmd = &cobra.Command{
	Use:   "confirm <order-id>",
	Short: "Mark an order completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, b *backend) error {
			ack, err := b.ConfirmOrder(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ack.Message)
			return nil
		})
	},
}

func init() {
	ordersCmd.AddCommand(orderPlaceCmd)
	ordersCmd.AddCommand(orderConfirmCmd)
}
