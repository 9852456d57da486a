package marketplace

import (
	"context"
	"fmt"
	"math"
)

// CreateReview records a review by the signed-in user. Repeat reviews of the
// same gig are accepted; each one counts toward the gig's rating.
func (l *Local) CreateReview(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	author, err := l.requireUser(ctx, users)
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
	reviews, err := l.reviews(ctx)
	if err != nil {
		return nil, err
	}

	r := Review{
		ID:        l.newID(),
		GigID:     req.GigID,
		UserID:    users[author].ID,
		Star:      req.Star,
		Desc:      req.Desc,
		CreatedAt: l.now(),
	}
	if req.DetailedRatings != nil {
		dr := *req.DetailedRatings
		r.DetailedRatings = &dr
	}
	reviews = append(reviews, r)
	gigs[gi].TotalStars += r.Star
	gigs[gi].StarNumber++
	recomputeSellerStats(users, gigs, reviews, gigs[gi].UserID)

	if err := l.saveReviews(ctx, reviews); err != nil {
		return nil, err
	}
	if err := l.saveGigs(ctx, gigs); err != nil {
		return nil, err
	}
	if err := l.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	return &r, nil
}

func (l *Local) GetReviews(ctx context.Context, gigID string) ([]Review, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	reviews, err := l.reviews(ctx)
	if err != nil {
		return nil, err
	}
	out := []Review{}
	for _, r := range reviews {
		if r.GigID == gigID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *Local) DeleteReview(ctx context.Context, id string) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	reviews, err := l.reviews(ctx)
	if err != nil {
		return Ack{}, err
	}
	var target *Review
	for i := range reviews {
		if reviews[i].ID == id {
			target = &reviews[i]
			break
		}
	}
	if target == nil {
		return Ack{}, fmt.Errorf("%w: review %q", ErrNotFound, id)
	}
	users, err := l.users(ctx)
	if err != nil {
		return Ack{}, err
	}
	if err := l.authorize(users, target.UserID); err != nil {
		return Ack{}, err
	}
	gigs, err := l.gigs(ctx)
	if err != nil {
		return Ack{}, err
	}

	kept, touched := dropReviews(gigs, reviews, func(r Review) bool { return r.ID == id })
	for sellerID := range touched {
		recomputeSellerStats(users, gigs, kept, sellerID)
	}

	if err := l.saveReviews(ctx, kept); err != nil {
		return Ack{}, err
	}
	if err := l.saveGigs(ctx, gigs); err != nil {
		return Ack{}, err
	}
	if err := l.saveUsers(ctx, users); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "Review deleted"}, nil
}

// dropReviews removes every review matching drop, takes its stars back off
// the gig in gigs, and reports the owners of the affected gigs.
func dropReviews(gigs []Gig, reviews []Review, drop func(Review) bool) ([]Review, map[string]bool) {
	touched := map[string]bool{}
	kept := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if !drop(r) {
			kept = append(kept, r)
			continue
		}
		gi := findGig(gigs, r.GigID)
		if gi < 0 {
			continue
		}
		gigs[gi].TotalStars -= r.Star
		if gigs[gi].StarNumber > 0 {
			gigs[gi].StarNumber--
		}
		if gigs[gi].TotalStars < 0 || gigs[gi].StarNumber == 0 {
			gigs[gi].TotalStars = 0
		}
		touched[gigs[gi].UserID] = true
	}
	return kept, touched
}

// recomputeSellerStats rebuilds the rating stats of sellerID from the star
// totals of the seller's gigs, so they always agree with Gig.Rating. Stars
// with no review record behind them (the seeded catalogue) count as
// recommended when their average is 4 or more. Detailed ratings come from
// review records only.
func recomputeSellerStats(users []User, gigs []Gig, reviews []Review, sellerID string) {
	ui := findUser(users, sellerID)
	if ui < 0 {
		return
	}

	type recorded struct{ count, stars, recommended int }
	byGig := map[string]*recorded{}
	var total, stars, recommended int
	for _, g := range gigs {
		if g.UserID != sellerID {
			continue
		}
		byGig[g.ID] = &recorded{}
		total += g.StarNumber
		stars += g.TotalStars
	}

	var detailed int
	var sum DetailedRatings
	for _, r := range reviews {
		rec, ok := byGig[r.GigID]
		if !ok {
			continue
		}
		rec.count++
		rec.stars += r.Star
		if r.Star >= 4 {
			rec.recommended++
		}
		if d := r.DetailedRatings; d != nil {
			detailed++
			sum.Communication += d.Communication
			sum.ServiceQuality += d.ServiceQuality
			sum.DeliveryTime += d.DeliveryTime
			sum.ValueForMoney += d.ValueForMoney
		}
	}
	for _, g := range gigs {
		rec, ok := byGig[g.ID]
		if !ok {
			continue
		}
		recommended += rec.recommended
		if n := g.StarNumber - rec.count; n > 0 && g.TotalStars-rec.stars >= 4*n {
			recommended += n
		}
	}

	st := &users[ui].Stats
	st.TotalReviews = total
	st.AvgRating = 0
	st.RecommendationRate = 0
	st.DetailedRatings = DetailedRatings{}
	if total > 0 {
		st.AvgRating = round1(float64(stars) / float64(total))
		st.RecommendationRate = int(math.Round(float64(recommended) * 100 / float64(total)))
	}
	if detailed > 0 {
		n := float64(detailed)
		st.DetailedRatings = DetailedRatings{
			Communication:  round1(sum.Communication / n),
			ServiceQuality: round1(sum.ServiceQuality / n),
			DeliveryTime:   round1(sum.DeliveryTime / n),
			ValueForMoney:  round1(sum.ValueForMoney / n),
		}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
