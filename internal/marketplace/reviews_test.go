package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewsUpdateRatings(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	sam, samUser := seller(t, l, "sam")
	bob, _ := buyer(t, l, "bob")
	eve, _ := buyer(t, l, "eve")

	g, err := sam.CreateGig(ctx, gigRequest("Logo", CategoryDesign, 500))
	require.NoError(t, err)

	_, err = l.CreateReview(ctx, CreateReviewRequest{GigID: g.ID, Star: 5, Desc: "ok"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = bob.CreateReview(ctx, CreateReviewRequest{GigID: g.ID, Star: 6, Desc: "too good"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = bob.CreateReview(ctx, CreateReviewRequest{GigID: "missing", Star: 5, Desc: "?"})
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := bob.CreateReview(ctx, CreateReviewRequest{
		GigID: g.ID, Star: 5, Desc: "great",
		DetailedRatings: &DetailedRatings{Communication: 5, ServiceQuality: 4, DeliveryTime: 5, ValueForMoney: 4},
	})
	require.NoError(t, err)
	_, err = eve.CreateReview(ctx, CreateReviewRequest{GigID: g.ID, Star: 2, Desc: "meh"})
	require.NoError(t, err)

	gig, err := l.GetGig(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, gig.TotalStars)
	assert.Equal(t, 2, gig.StarNumber)
	assert.InDelta(t, 3.5, gig.Rating(), 1e-9)

	owner, err := l.GetUser(ctx, samUser.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, owner.Stats.TotalReviews)
	assert.InDelta(t, 3.5, owner.Stats.AvgRating, 1e-9)
	assert.Equal(t, 50, owner.Stats.RecommendationRate)
	assert.InDelta(t, 4.0, owner.Stats.DetailedRatings.ServiceQuality, 1e-9)

	reviews, err := l.GetReviews(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, first.ID, reviews[0].ID)

	_, err = eve.DeleteReview(ctx, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	ack, err := bob.DeleteReview(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Review deleted", ack.Message)

	gig, err = l.GetGig(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gig.TotalStars)
	assert.Equal(t, 1, gig.StarNumber)

	owner, err = l.GetUser(ctx, samUser.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, owner.Stats.TotalReviews)
	assert.Equal(t, 0, owner.Stats.RecommendationRate)
	assert.Equal(t, DetailedRatings{}, owner.Stats.DetailedRatings)

	_, err = bob.DeleteReview(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Nothing stops one user from reviewing the same gig repeatedly, and every
// repeat moves the rating.
func TestRepeatReviewsAreAccepted(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	bob, _ := buyer(t, l, "bob")

	for i := 0; i < 3; i++ {
		_, err := bob.CreateReview(ctx, CreateReviewRequest{GigID: "1", Star: 1, Desc: "again"})
		require.NoError(t, err)
	}

	reviews, err := l.GetReviews(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	gig, err := l.GetGig(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 7, gig.TotalStars)
	assert.Equal(t, 4, gig.StarNumber)
}

func TestDetailedRatingsMustBeOnScale(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	bob, _ := buyer(t, l, "bob")

	for _, dr := range []DetailedRatings{
		{Communication: 999, ServiceQuality: 4, DeliveryTime: 4, ValueForMoney: 4},
		{Communication: 4, ServiceQuality: -50, DeliveryTime: 4, ValueForMoney: 4},
		{Communication: 4, ServiceQuality: 4, DeliveryTime: 5.5, ValueForMoney: 4},
	} {
		dr := dr
		_, err := bob.CreateReview(ctx, CreateReviewRequest{GigID: "1", Star: 5, Desc: "great", DetailedRatings: &dr})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	reviews, err := l.GetReviews(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	owner, err := l.GetUser(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, DetailedRatings{}, owner.Stats.DetailedRatings)

	_, err = bob.CreateReview(ctx, CreateReviewRequest{
		GigID: "1", Star: 5, Desc: "great",
		DetailedRatings: &DetailedRatings{Communication: 5, ServiceQuality: 0, DeliveryTime: 4.5, ValueForMoney: 3},
	})
	require.NoError(t, err)
}

// A seller's rating is the star-weighted mean over their gigs, seeded stars
// included, so it never disagrees with Gig.Rating.
func TestSellerStatsFollowGigStars(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	bob, _ := buyer(t, l, "bob")

	untouched, err := l.GetUser(ctx, "102")
	require.NoError(t, err)
	gig2, err := l.GetGig(ctx, "2")
	require.NoError(t, err)
	assert.InDelta(t, gig2.Rating(), untouched.Stats.AvgRating, 1e-9)
	assert.Equal(t, 1, untouched.Stats.TotalReviews)
	assert.Equal(t, 100, untouched.Stats.RecommendationRate)

	_, err = bob.CreateReview(ctx, CreateReviewRequest{GigID: "1", Star: 2, Desc: "meh"})
	require.NoError(t, err)

	gig1, err := l.GetGig(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 6, gig1.TotalStars)
	assert.Equal(t, 2, gig1.StarNumber)
	owner, err := l.GetUser(ctx, "101")
	require.NoError(t, err)
	assert.InDelta(t, gig1.Rating(), owner.Stats.AvgRating, 1e-9)
	assert.Equal(t, 2, owner.Stats.TotalReviews)
	// the seeded 4-star rating recommends, the new 2-star one does not
	assert.Equal(t, 50, owner.Stats.RecommendationRate)

	// a second gig for the same seller weights by star count
	_, err = l.CreateGig(ctx, CreateGigRequest{
		UserID: "101", Title: "Brand kit", Desc: "Full kit.", Category: CategoryDesign, Price: 900,
		Cover: "https://example.com/kit.jpg", Images: []string{}, ShortTitle: "Kit", ShortDesc: "Brand kit",
		DeliveryTime: 5, RevisionNumber: 2, Features: []string{"Logo"},
	})
	require.NoError(t, err)
	mine, err := l.ListGigs(ctx, GigFilter{UserID: "101", Sort: SortCreatedAt})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	_, err = bob.CreateReview(ctx, CreateReviewRequest{GigID: mine[0].ID, Star: 5, Desc: "lovely"})
	require.NoError(t, err)

	owner, err = l.GetUser(ctx, "101")
	require.NoError(t, err)
	var stars, count int
	for _, id := range []string{"1", mine[0].ID} {
		g, err := l.GetGig(ctx, id)
		require.NoError(t, err)
		stars += g.TotalStars
		count += g.StarNumber
	}
	assert.Equal(t, 11, stars)
	assert.Equal(t, 3, count)
	assert.InDelta(t, 3.7, owner.Stats.AvgRating, 1e-9)
	assert.Equal(t, 3, owner.Stats.TotalReviews)
	assert.Equal(t, 67, owner.Stats.RecommendationRate)
}
