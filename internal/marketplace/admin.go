package marketplace

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

// The admin operations trust their caller; the HTTP layer puts them behind
// the admin guard.

func (l *Local) Stats(ctx context.Context) (*Stats, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := l.orders(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		TotalUsers:  len(users),
		TotalGigs:   len(gigs),
		TotalOrders: len(orders),
	}
	for _, u := range users {
		if u.IsSeller {
			st.TotalSellers++
		}
		if u.SellerRequestStatus == SellerRequestPending {
			st.PendingSellerRequests++
		}
	}
	return st, nil
}

func (l *Local) ListUsers(ctx context.Context, sellersOnly bool) ([]User, error) {
	return l.selectUsers(ctx, func(u User) bool { return !sellersOnly || u.IsSeller })
}

func (l *Local) SellerRequests(ctx context.Context) ([]User, error) {
	return l.selectUsers(ctx, func(u User) bool { return u.SellerRequestStatus == SellerRequestPending })
}

func (l *Local) selectUsers(ctx context.Context, keep func(User) bool) ([]User, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	out := []User{}
	for _, u := range users {
		if keep(u) {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

func (l *Local) ApproveSeller(ctx context.Context, userID string) (Ack, error) {
	return l.decideSeller(ctx, userID, true)
}

func (l *Local) RejectSeller(ctx context.Context, userID string) (Ack, error) {
	return l.decideSeller(ctx, userID, false)
}

// decideSeller moves a pending seller request to approved or rejected.
func (l *Local) decideSeller(ctx context.Context, userID string, approve bool) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	idx := findUser(users, userID)
	if idx < 0 {
		return Ack{}, fmt.Errorf("%w: user %q", ErrNotFound, userID)
	}
	u := &users[idx]
	if u.SellerRequestStatus != SellerRequestPending {
		return Ack{}, fmt.Errorf("%w: seller request is %s", ErrInvalidState, u.SellerRequestStatus)
	}

	msg := "Seller rejected"
	if approve {
		u.IsSeller = true
		u.SellerRequestStatus = SellerRequestApproved
		msg = "Seller approved"
	} else {
		u.SellerRequestStatus = SellerRequestRejected
	}
	if err := l.saveUsers(ctx, users); err != nil {
		return Ack{}, err
	}
	l.session.Refresh(u)

	logger.Info("seller request decided", "user_id", u.ID, "status", u.SellerRequestStatus)
	l.emit(ctx, Event{
		Type:     EventSellerDecision,
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		Payload:  u.SellerRequestStatus,
	})
	return Ack{Message: msg}, nil
}
