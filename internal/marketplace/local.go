package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/store"
)

const (
	colUsers         = "users"
	colGigs          = "gigs"
	colOrders        = "orders"
	colReviews       = "reviews"
	colConversations = "conversations"
	colMessages      = "messages"
	colSession       = "session"
)

// dataset is shared by a Local and every per-user view derived from it.
// The mutex serialises whole-collection read-modify-write cycles inside this
// process only; other processes writing the same store still race.
type dataset struct {
	mu    sync.Mutex
	store store.Store
}

// Local implements Service directly over a collection store.
type Local struct {
	data          *dataset
	session       *Session
	durable       bool
	notifier      Notifier
	now           func() time.Time
	newID         func() string
	adminPassword string
}

type Option func(*Local)

func WithNotifier(n Notifier) Option {
	return func(l *Local) { l.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Local) { l.newID = newID }
}

// WithAdminPassword sets the password of the admin account synthesised by Bootstrap.
func WithAdminPassword(password string) Option {
	return func(l *Local) { l.adminPassword = password }
}

// WithDurableSession persists the signed-in user in the store's session
// collection so a later process resumes it on Bootstrap.
func WithDurableSession() Option {
	return func(l *Local) { l.durable = true }
}

func NewLocal(st store.Store, opts ...Option) *Local {
	l := &Local{
		data:          &dataset{store: st},
		session:       NewSession(),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
		adminPassword: "admin123",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ForUser returns a view over the same data with a non-durable session bound
// to u. The HTTP server derives one per authenticated request.
func (l *Local) ForUser(u *User) Service {
	cp := *l
	cp.session = NewUserSession(u)
	cp.durable = false
	return &cp
}

func (l *Local) Session() *Session {
	return l.session
}

func (l *Local) Ping(ctx context.Context) error {
	return l.data.store.Ping(ctx)
}

func (l *Local) emit(ctx context.Context, ev Event) {
	if l.notifier == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = l.now()
	}
	if err := l.notifier.Notify(ctx, ev); err != nil {
		logger.Warn("notification failed", "event", ev.Type, "user_id", ev.UserID, "error", err)
	}
}

func loadAll[T any](ctx context.Context, st store.Store, name string) ([]T, error) {
	raw, err := st.Load(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveAll[T any](ctx context.Context, st store.Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return st.Save(ctx, name, raw)
}

func (l *Local) users(ctx context.Context) ([]User, error) {
	return loadAll[User](ctx, l.data.store, colUsers)
}

func (l *Local) saveUsers(ctx context.Context, users []User) error {
	return saveAll(ctx, l.data.store, colUsers, users)
}

func (l *Local) gigs(ctx context.Context) ([]Gig, error) {
	return loadAll[Gig](ctx, l.data.store, colGigs)
}

func (l *Local) saveGigs(ctx context.Context, gigs []Gig) error {
	return saveAll(ctx, l.data.store, colGigs, gigs)
}

func (l *Local) orders(ctx context.Context) ([]Order, error) {
	return loadAll[Order](ctx, l.data.store, colOrders)
}

func (l *Local) saveOrders(ctx context.Context, orders []Order) error {
	return saveAll(ctx, l.data.store, colOrders, orders)
}

func (l *Local) reviews(ctx context.Context) ([]Review, error) {
	return loadAll[Review](ctx, l.data.store, colReviews)
}

func (l *Local) saveReviews(ctx context.Context, reviews []Review) error {
	return saveAll(ctx, l.data.store, colReviews, reviews)
}

func (l *Local) conversations(ctx context.Context) ([]Conversation, error) {
	return loadAll[Conversation](ctx, l.data.store, colConversations)
}

func (l *Local) saveConversations(ctx context.Context, convs []Conversation) error {
	return saveAll(ctx, l.data.store, colConversations, convs)
}

func (l *Local) messages(ctx context.Context) ([]Message, error) {
	return loadAll[Message](ctx, l.data.store, colMessages)
}

func (l *Local) saveMessages(ctx context.Context, msgs []Message) error {
	return saveAll(ctx, l.data.store, colMessages, msgs)
}

func (l *Local) persistSession(ctx context.Context) error {
	if !l.durable {
		return nil
	}
	u := l.session.User()
	if u == nil {
		return l.data.store.Delete(ctx, colSession)
	}
	return saveAll(ctx, l.data.store, colSession, []User{*u})
}

// requireUser resolves the session to the stored user record.
func (l *Local) requireUser(ctx context.Context, users []User) (int, error) {
	id := l.session.UserID()
	if id == "" {
		return -1, ErrUnauthenticated
	}
	idx := findUser(users, id)
	if idx < 0 {
		// the account was deleted under us
		l.session.End()
		return -1, ErrUnauthenticated
	}
	return idx, nil
}

// authorize allows the call when there is no session (trusted local
// tooling), when the session user is ownerID, or when it is an admin.
func (l *Local) authorize(users []User, ownerIDs ...string) error {
	id := l.session.UserID()
	if id == "" {
		return nil
	}
	for _, owner := range ownerIDs {
		if owner == id {
			return nil
		}
	}
	if idx := findUser(users, id); idx >= 0 && users[idx].IsAdmin {
		return nil
	}
	return ErrForbidden
}

func findUser(users []User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func findGig(gigs []Gig, id string) int {
	for i := range gigs {
		if gigs[i].ID == id {
			return i
		}
	}
	return -1
}

func findOrder(orders []Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

func findConversation(convs []Conversation, id string) int {
	for i := range convs {
		if convs[i].ID == id {
			return i
		}
	}
	return -1
}
