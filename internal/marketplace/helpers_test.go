package marketplace

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/talktrade/internal/store"
)

func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestLocalOn(t *testing.T, st store.Store, opts ...Option) *Local {
	t.Helper()
	base := []Option{
		WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
		WithIDGenerator(sequentialIDs()),
	}
	l := NewLocal(st, append(base, opts...)...)
	require.NoError(t, l.Bootstrap(context.Background()))
	return l
}

func newTestLocal(t *testing.T, opts ...Option) *Local {
	return newTestLocalOn(t, store.NewMemory(), opts...)
}

func register(t *testing.T, svc Service, username string, seller bool) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123456",
		Country:  "India",
		IsSeller: seller,
	})
	require.NoError(t, err)
}

func login(t *testing.T, svc Service, username string) *User {
	t.Helper()
	u, err := svc.Login(context.Background(), LoginRequest{Username: username, Password: "pw123456"})
	require.NoError(t, err)
	return u
}

// seller registers username, has the admin approve it and returns a view
// signed in as that seller.
func seller(t *testing.T, l *Local, username string) (Service, *User) {
	t.Helper()
	ctx := context.Background()
	register(t, l, username, true)
	u, err := l.Authenticate(ctx, LoginRequest{Username: username, Password: "pw123456"})
	require.NoError(t, err)
	_, err = l.ApproveSeller(ctx, u.ID)
	require.NoError(t, err)
	u, err = l.GetUser(ctx, u.ID)
	require.NoError(t, err)
	return l.ForUser(u), u
}

func buyer(t *testing.T, l *Local, username string) (Service, *User) {
	t.Helper()
	ctx := context.Background()
	register(t, l, username, false)
	u, err := l.Authenticate(ctx, LoginRequest{Username: username, Password: "pw123456"})
	require.NoError(t, err)
	return l.ForUser(u), u
}

func gigRequest(title string, category Category, price int64) CreateGigRequest {
	return CreateGigRequest{
		Title:          title,
		Desc:           "A gig for testing.",
		Category:       category,
		Price:          price,
		Cover:          "https://example.com/cover.jpg",
		Images:         []string{},
		ShortTitle:     "Test gig",
		ShortDesc:      "Testing",
		DeliveryTime:   3,
		RevisionNumber: 1,
		Features:       []string{"Fast", "Friendly"},
	}
}

func gigIDs(gigs []Gig) []string {
	ids := make([]string, 0, len(gigs))
	for _, g := range gigs {
		ids = append(ids, g.ID)
	}
	return ids
}
