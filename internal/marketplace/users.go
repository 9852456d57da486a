package marketplace

import (
	"context"
	"fmt"
	"strings"
)

func (l *Local) GetUser(ctx context.Context, id string) (*User, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, id)
	}
	pub := users[idx].Public()
	return &pub, nil
}

func (l *Local) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, id)
	}
	if err := l.authorize(users, id); err != nil {
		return nil, err
	}

	u := &users[idx]
	if req.Email != "" && !strings.EqualFold(req.Email, u.Email) {
		for _, other := range users {
			if other.ID != id && strings.EqualFold(other.Email, req.Email) {
				return nil, fmt.Errorf("%w: email %q is taken", ErrDuplicateIdentity, req.Email)
			}
		}
		u.Email = req.Email
	}
	if req.Img != "" {
		u.Img = req.Img
	}
	if req.Country != "" {
		u.Country = req.Country
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Desc != "" {
		u.Desc = req.Desc
	}

	if err := l.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	pub := u.Public()
	l.session.Refresh(&pub)
	if err := l.persistSession(ctx); err != nil {
		return nil, err
	}
	return &pub, nil
}

// DeleteUser removes the account along with its gigs, reviews and
// conversations. Orders stay as history for the other party.
func (l *Local) DeleteUser(ctx context.Context, id string) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	idx := findUser(users, id)
	if idx < 0 {
		return Ack{}, fmt.Errorf("%w: user %q", ErrNotFound, id)
	}
	if err := l.authorize(users, id); err != nil {
		return Ack{}, err
	}
	if users[idx].IsAdmin && countAdmins(users) == 1 {
		return Ack{}, fmt.Errorf("%w: cannot delete the last admin", ErrInvalidState)
	}

	gigs, err := l.gigs(ctx)
	if err != nil {
		return Ack{}, err
	}
	reviews, err := l.reviews(ctx)
	if err != nil {
		return Ack{}, err
	}

	removedGigs := map[string]bool{}
	keptGigs := gigs[:0:0]
	for _, g := range gigs {
		if g.UserID == id {
			removedGigs[g.ID] = true
			continue
		}
		keptGigs = append(keptGigs, g)
	}
	keptReviews, touched := dropReviews(keptGigs, reviews, func(r Review) bool {
		return r.UserID == id || removedGigs[r.GigID]
	})

	keptUsers := append(users[:idx:idx], users[idx+1:]...)
	stripFavourites(keptUsers, removedGigs)
	for sellerID := range touched {
		recomputeSellerStats(keptUsers, keptGigs, keptReviews, sellerID)
	}

	convs, err := l.conversations(ctx)
	if err != nil {
		return Ack{}, err
	}
	msgs, err := l.messages(ctx)
	if err != nil {
		return Ack{}, err
	}
	removedConvs := map[string]bool{}
	keptConvs := convs[:0:0]
	for _, c := range convs {
		if c.HasParticipant(id) {
			removedConvs[c.ID] = true
			continue
		}
		keptConvs = append(keptConvs, c)
	}
	keptMsgs := msgs[:0:0]
	for _, m := range msgs {
		if !removedConvs[m.ConversationID] {
			keptMsgs = append(keptMsgs, m)
		}
	}

	if err := l.saveGigs(ctx, keptGigs); err != nil {
		return Ack{}, err
	}
	if err := l.saveReviews(ctx, keptReviews); err != nil {
		return Ack{}, err
	}
	if err := l.saveConversations(ctx, keptConvs); err != nil {
		return Ack{}, err
	}
	if err := l.saveMessages(ctx, keptMsgs); err != nil {
		return Ack{}, err
	}
	if err := l.saveUsers(ctx, keptUsers); err != nil {
		return Ack{}, err
	}

	if l.session.UserID() == id {
		l.session.End()
		if err := l.persistSession(ctx); err != nil {
			return Ack{}, err
		}
	}
	return Ack{Message: "User deleted"}, nil
}

// RequestSeller files a seller application for the signed-in user.
func (l *Local) RequestSeller(ctx context.Context) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	idx, err := l.requireUser(ctx, users)
	if err != nil {
		return Ack{}, err
	}
	u := &users[idx]
	switch {
	case u.IsSeller:
		return Ack{}, fmt.Errorf("%w: already a seller", ErrInvalidState)
	case u.SellerRequestStatus == SellerRequestPending:
		return Ack{Message: "Seller request sent"}, nil
	}
	u.SellerRequestStatus = SellerRequestPending
	if err := l.saveUsers(ctx, users); err != nil {
		return Ack{}, err
	}
	l.session.Refresh(u)
	if err := l.persistSession(ctx); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "Seller request sent"}, nil
}

// ToggleFavouriteGig flips gigID in the signed-in user's favourites and
// returns the resulting list.
func (l *Local) ToggleFavouriteGig(ctx context.Context, gigID string) ([]string, error) {
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
	u := &users[idx]

	if u.HasFavourite(gigID) {
		favs := make([]string, 0, len(u.Favourites))
		for _, id := range u.Favourites {
			if id != gigID {
				favs = append(favs, id)
			}
		}
		u.Favourites = favs
	} else {
		gigs, err := l.gigs(ctx)
		if err != nil {
			return nil, err
		}
		if findGig(gigs, gigID) < 0 {
			return nil, fmt.Errorf("%w: gig %q", ErrNotFound, gigID)
		}
		u.Favourites = append(u.Favourites, gigID)
	}

	if err := l.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	l.session.Refresh(u)
	if err := l.persistSession(ctx); err != nil {
		return nil, err
	}
	return append([]string{}, u.Favourites...), nil
}

// GetFavouriteGigs is empty, not an error, when nobody is signed in.
func (l *Local) GetFavouriteGigs(ctx context.Context) ([]Gig, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	id := l.session.UserID()
	if id == "" {
		return []Gig{}, nil
	}
	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, id)
	if idx < 0 {
		return []Gig{}, nil
	}
	gigs, err := l.gigs(ctx)
	if err != nil {
		return nil, err
	}
	out := []Gig{}
	for _, g := range gigs {
		if users[idx].HasFavourite(g.ID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func countAdmins(users []User) int {
	n := 0
	for _, u := range users {
		if u.IsAdmin {
			n++
		}
	}
	return n
}

func stripFavourites(users []User, gigIDs map[string]bool) {
	if len(gigIDs) == 0 {
		return
	}
	for i := range users {
		favs := make([]string, 0, len(users[i].Favourites))
		for _, id := range users[i].Favourites {
			if !gigIDs[id] {
				favs = append(favs, id)
			}
		}
		users[i].Favourites = favs
	}
}
