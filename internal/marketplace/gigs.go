package marketplace

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

func (l *Local) ListGigs(ctx context.Context, filter GigFilter) ([]Gig, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, filter.Category)
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	return applyGigFilter(gigs, filter)
}

func (l *Local) GetGig(ctx context.Context, id string) (*Gig, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	idx := findGig(gigs, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: gig %q", ErrNotFound, id)
	}
	g := gigs[idx]
	return &g, nil
}

func (l *Local) GetMyGigs(ctx context.Context) ([]Gig, error) {
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
	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	out := []Gig{}
	for _, g := range gigs {
		if g.UserID == users[idx].ID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (l *Local) CreateGig(ctx context.Context, req CreateGigRequest) (*Gig, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	ownerID := req.UserID
	if ownerID == "" {
		ownerID = l.session.UserID()
	}
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	owner := findUser(users, ownerID)
	if owner < 0 {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, ownerID)
	}
	if err := l.authorize(users, ownerID); err != nil {
		return nil, err
	}

	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	g := Gig{
		ID:             l.newID(),
		UserID:         ownerID,
		Title:          req.Title,
		Desc:           req.Desc,
		Category:       req.Category,
		Price:          req.Price,
		Cover:          req.Cover,
		Images:         append([]string{}, req.Images...),
		ShortTitle:     req.ShortTitle,
		ShortDesc:      req.ShortDesc,
		DeliveryTime:   req.DeliveryTime,
		RevisionNumber: req.RevisionNumber,
		Features:       append([]string{}, req.Features...),
		CreatedAt:      l.now(),
	}
	if err := l.saveGigs(ctx, append(gigs, g)); err != nil {
		return nil, err
	}
	users[owner].Stats.TotalGigs++
	if err := l.saveUsers(ctx, users); err != nil {
		return nil, err
	}

	logger.Info("gig created", "gig_id", g.ID, "user_id", ownerID, "category", g.Category)
	return &g, nil
}

// DeleteGig removes the gig, its reviews and every favourite pointing at it.
// Orders keep their copied title and price.
func (l *Local) DeleteGig(ctx context.Context, id string) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	gigs, err := l.gigs(ctx)
	if err != nil {
		return Ack{}, err
	}
	idx := findGig(gigs, id)
	if idx < 0 {
		return Ack{}, fmt.Errorf("%w: gig %q", ErrNotFound, id)
	}
	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	ownerID := gigs[idx].UserID
	if err := l.authorize(users, ownerID); err != nil {
		return Ack{}, err
	}
	reviews, err := l.reviews(ctx)
	if err != nil {
		return Ack{}, err
	}

	keptGigs := append(gigs[:idx:idx], gigs[idx+1:]...)
	keptReviews, _ := dropReviews(keptGigs, reviews, func(r Review) bool { return r.GigID == id })
	stripFavourites(users, map[string]bool{id: true})
	if owner := findUser(users, ownerID); owner >= 0 && users[owner].Stats.TotalGigs > 0 {
		users[owner].Stats.TotalGigs--
	}
	recomputeSellerStats(users, keptGigs, keptReviews, ownerID)

	if err := l.saveGigs(ctx, keptGigs); err != nil {
		return Ack{}, err
	}
	if err := l.saveReviews(ctx, keptReviews); err != nil {
		return Ack{}, err
	}
	if err := l.saveUsers(ctx, users); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "Gig deleted"}, nil
}
