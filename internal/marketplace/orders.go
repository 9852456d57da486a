package marketplace

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

// CreateOrder places an order for a gig on behalf of the signed-in buyer.
// Image, title, price and seller are copied from the gig at order time.
func (l *Local) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	buyer, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	gi := findGig(gigs, req.GigID)
	if gi < 0 {
		return nil, fmt.Errorf("%w: gig %q", ErrNotFound, req.GigID)
	}
	g := gigs[gi]
	if g.UserID == users[buyer].ID {
		return nil, fmt.Errorf("%w: you cannot order your own gig", ErrInvalidInput)
	}
	orders, err := l.orders(ctx)
	if err != nil {
		return nil, err
	}

	o := Order{
		ID:        l.newID(),
		GigID:     g.ID,
		Img:       g.Cover,
		Title:     g.Title,
		Price:     g.Price,
		SellerID:  g.UserID,
		BuyerID:   users[buyer].ID,
		CreatedAt: l.now(),
	}
	if err := l.saveOrders(ctx, append(orders, o)); err != nil {
		return nil, err
	}

	logger.Info("order placed", "order_id", o.ID, "gig_id", g.ID, "buyer_id", o.BuyerID, "seller_id", o.SellerID)
	if si := findUser(users, o.SellerID); si >= 0 {
		l.emit(ctx, Event{
			Type:     EventOrderPlaced,
			UserID:   o.SellerID,
			Email:    users[si].Email,
			Username: users[si].Username,
			Payload:  o,
		})
	}
	return &o, nil
}

// GetOrders lists the orders the signed-in user bought or sold. Admins see all.
func (l *Local) GetOrders(ctx context.Context) ([]Order, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	orders, err := l.orders(ctx)
	if err != nil {
		return nil, err
	}
	u := users[idx]
	if u.IsAdmin {
		return orders, nil
	}
	out := []Order{}
	for _, o := range orders {
		if o.BuyerID == u.ID || o.SellerID == u.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ConfirmOrder marks an order completed. Unknown or already completed orders
// are acknowledged without change.
func (l *Local) ConfirmOrder(ctx context.Context, id string) (Ack, error) {
	ack := Ack{Message: "Order confirmed"}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	orders, err := l.orders(ctx)
	if err != nil {
		return Ack{}, err
	}
	oi := findOrder(orders, id)
	if oi < 0 || orders[oi].IsCompleted {
		return ack, nil
	}
	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	o := &orders[oi]
	if err := l.authorize(users, o.SellerID); err != nil {
		return Ack{}, err
	}
	gigs, err := l.gigs(ctx)
	if err != nil {
		return Ack{}, err
	}

	o.IsCompleted = true
	if gi := findGig(gigs, o.GigID); gi >= 0 {
		gigs[gi].Sales++
	}
	if si := findUser(users, o.SellerID); si >= 0 {
		users[si].Stats.CompletedOrders++
		users[si].Stats.TotalEarnings += o.Price
	}

	if err := l.saveOrders(ctx, orders); err != nil {
		return Ack{}, err
	}
	if err := l.saveGigs(ctx, gigs); err != nil {
		return Ack{}, err
	}
	if err := l.saveUsers(ctx, users); err != nil {
		return Ack{}, err
	}

	logger.Info("order completed", "order_id", o.ID, "seller_id", o.SellerID)
	if bi := findUser(users, o.BuyerID); bi >= 0 {
		l.emit(ctx, Event{
			Type:     EventOrderCompleted,
			UserID:   o.BuyerID,
			Email:    users[bi].Email,
			Username: users[bi].Username,
			Payload:  *o,
		})
	}
	return ack, nil
}
