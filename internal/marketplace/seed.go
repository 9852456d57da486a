package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/store"
)

// Bootstrap seeds any missing collection with the demo catalogue, creates the
// admin account when no admin exists, and resumes a durable session. Running
// it again on a seeded store changes nothing.
func (l *Local) Bootstrap(ctx context.Context) error {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	seeded, err := l.seedIfMissing(ctx, colUsers, func() any { return seedUsers() })
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded collection", "collection", colUsers)
	}
	if seeded, err = l.seedIfMissing(ctx, colGigs, func() any { return seedGigs() }); err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded collection", "collection", colGigs)
	}
	for _, name := range []string{colOrders, colReviews, colConversations, colMessages} {
		if _, err := l.seedIfMissing(ctx, name, func() any { return []struct{}{} }); err != nil {
			return err
		}
	}

	if err := l.ensureAdmin(ctx); err != nil {
		return err
	}
	if l.durable {
		return l.restoreSession(ctx)
	}
	return nil
}

func (l *Local) seedIfMissing(ctx context.Context, name string, items func() any) (bool, error) {
	_, err := l.data.store.Load(ctx, name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	switch v := items().(type) {
	case []User:
		return true, l.saveUsers(ctx, v)
	case []Gig:
		return true, l.saveGigs(ctx, v)
	default:
		return true, l.data.store.Save(ctx, name, []byte("[]"))
	}
}

func (l *Local) ensureAdmin(ctx context.Context) error {
	users, err := l.users(ctx)
	if err != nil {
		return err
	}
	if countAdmins(users) > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(l.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	username, email := freeAdminIdentity(users)
	admin := User{
		ID:                  "admin",
		Username:            username,
		Email:               email,
		Password:            string(hash),
		Img:                 "https://randomuser.me/api/portraits/men/1.jpg",
		Country:             "USA",
		IsAdmin:             true,
		SellerRequestStatus: SellerRequestNone,
		Favourites:          []string{},
		CreatedAt:           l.now(),
	}
	if findUser(users, admin.ID) >= 0 {
		admin.ID = l.newID()
	}
	if username != "admin" {
		logger.Warn("username admin is taken by a regular account, created admin under another name", "username", username)
	}
	logger.Info("created admin account", "user_id", admin.ID, "username", admin.Username)
	return l.saveUsers(ctx, append(users, admin))
}

// freeAdminIdentity returns "admin" / admin@talktrade.local, or the first
// numbered variant neither of whose parts is already registered. An existing
// non-admin "admin" account is never promoted.
func freeAdminIdentity(users []User) (string, string) {
	for n := 1; ; n++ {
		username, email := "admin", "admin@talktrade.local"
		if n > 1 {
			username = fmt.Sprintf("admin%d", n)
			email = fmt.Sprintf("admin%d@talktrade.local", n)
		}
		taken := false
		for _, u := range users {
			if u.Username == username || strings.EqualFold(u.Email, email) {
				taken = true
				break
			}
		}
		if !taken {
			return username, email
		}
	}
}

func (l *Local) restoreSession(ctx context.Context) error {
	saved, err := loadAll[User](ctx, l.data.store, colSession)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		return nil
	}
	users, err := l.users(ctx)
	if err != nil {
		return err
	}
	idx := findUser(users, saved[0].ID)
	if idx < 0 {
		l.session.End()
		return l.data.store.Delete(ctx, colSession)
	}
	l.session.Begin(&users[idx], "")
	return nil
}

type seedSeller struct {
	id, username, country, img string
}

var seedSellers = []seedSeller{
	{"101", "Alice", "USA", "women/1"},
	{"102", "Bob", "Canada", "men/2"},
	{"103", "Charlie", "UK", "men/3"},
	{"104", "Diana", "Australia", "women/4"},
	{"105", "Eve", "New Zealand", "women/5"},
	{"106", "Frank", "USA", "men/6"},
	{"107", "Grace", "Canada", "women/7"},
	{"108", "Heidi", "UK", "women/8"},
	{"109", "Ivan", "Australia", "men/9"},
	{"110", "Judy", "New Zealand", "women/10"},
	{"111", "Mallory", "USA", "women/11"},
	{"112", "Niaj", "Canada", "men/12"},
	{"113", "Oscar", "UK", "men/13"},
	{"114", "Peggy", "Australia", "women/14"},
	{"115", "Sybil", "New Zealand", "women/15"},
}

// Seeded sellers carry no password and cannot sign in. Their rating stats
// match the seeded gig stars.
func seedUsers() []User {
	created := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	users := make([]User, 0, len(seedSellers))
	for _, s := range seedSellers {
		users = append(users, User{
			ID:                  s.id,
			Username:            s.username,
			Email:               strings.ToLower(s.username) + "@talktrade.local",
			Img:                 "https://randomuser.me/api/portraits/" + s.img + ".jpg",
			Country:             s.country,
			IsSeller:            true,
			SellerRequestStatus: SellerRequestApproved,
			Favourites:          []string{},
			Stats: UserStats{
				TotalGigs: 1,
			},
			CreatedAt: created,
		})
	}
	gigs := seedGigs()
	for _, u := range users {
		recomputeSellerStats(users, gigs, nil, u.ID)
	}
	return users
}

func pexels(id string) string {
	return "https://images.pexels.com/photos/" + id + "/pexels-photo-" + id + ".jpeg?auto=compress&cs=tinysrgb&w=1600"
}

func seedGigs() []Gig {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	gigs := []Gig{
		{ID: "1", UserID: "101", Title: "I will create a professional logo design", Desc: "Unique and professional logo for your business.", TotalStars: 4, StarNumber: 1, Category: CategoryDesign, Price: 500, Cover: pexels("1779487"), ShortTitle: "Logo Design", ShortDesc: "Professional logo design service", DeliveryTime: 3, RevisionNumber: 2, Features: []string{"Source file", "3D mockup", "High resolution"}, Sales: 10, CreatedAt: at("2023-10-01T10:00:00Z")},
		{ID: "2", UserID: "102", Title: "I will design a stunning business card", Desc: "Eye-catching business cards that leave a lasting impression.", TotalStars: 5, StarNumber: 1, Category: CategoryDesign, Price: 300, Cover: pexels("3585088"), ShortTitle: "Business Card", ShortDesc: "Stunning business card design", DeliveryTime: 2, RevisionNumber: 3, Features: []string{"Print-ready", "Double-sided"}, Sales: 5, CreatedAt: at("2023-10-02T11:00:00Z")},
		{ID: "3", UserID: "103", Title: "I will manage your social media accounts", Desc: "Grow your online presence with expert social media management.", TotalStars: 4, StarNumber: 1, Category: CategoryMarketing, Price: 1500, Cover: pexels("265087"), ShortTitle: "Social Media Manager", ShortDesc: "Expert social media management", DeliveryTime: 30, RevisionNumber: 5, Features: []string{"Content creation", "Scheduled posts"}, Sales: 20, CreatedAt: at("2023-10-03T12:00:00Z")},
		{ID: "4", UserID: "104", Title: "I will create a high-converting SEO strategy", Desc: "Boost your search engine rankings and drive organic traffic.", TotalStars: 5, StarNumber: 1, Category: CategoryMarketing, Price: 2000, Cover: pexels("6476587"), ShortTitle: "SEO Strategy", ShortDesc: "High-converting SEO strategy", DeliveryTime: 14, RevisionNumber: 3, Features: []string{"Keyword research", "On-page SEO"}, Sales: 12, CreatedAt: at("2023-10-04T13:00:00Z")},
		{ID: "5", UserID: "105", Title: "I will write a compelling blog post", Desc: "Engaging and well-researched content for your blog.", TotalStars: 4, StarNumber: 1, Category: CategoryWriting, Price: 200, Cover: pexels("3184454"), ShortTitle: "Blog Post Writing", ShortDesc: "Compelling blog post", DeliveryTime: 2, RevisionNumber: 2, Features: []string{"500 words", "Topic research"}, Sales: 30, CreatedAt: at("2023-10-05T14:00:00Z")},
		{ID: "6", UserID: "106", Title: "I will translate your document from English to Spanish", Desc: "Accurate and professional translation services.", TotalStars: 5, StarNumber: 1, Category: CategoryWriting, Price: 100, Cover: pexels("5082579"), ShortTitle: "English to Spanish", ShortDesc: "Professional translation", DeliveryTime: 1, RevisionNumber: 1, Features: []string{"Up to 1000 words"}, Sales: 18, CreatedAt: at("2023-10-06T15:00:00Z")},
		{ID: "7", UserID: "107", Title: "I will create a professional animated explainer video", Desc: "Engage your audience with a captivating animated video.", TotalStars: 5, StarNumber: 1, Category: CategoryVideo, Price: 2500, Cover: pexels("4057738"), ShortTitle: "Animated Explainer", ShortDesc: "Professional animated video", DeliveryTime: 7, RevisionNumber: 3, Features: []string{"60 seconds", "Voice over"}, Sales: 8, CreatedAt: at("2023-10-07T16:00:00Z")},
		{ID: "8", UserID: "108", Title: "I will edit your YouTube videos", Desc: "Professional video editing to make your content shine.", TotalStars: 4, StarNumber: 1, Category: CategoryVideo, Price: 800, Cover: pexels("4489749"), ShortTitle: "YouTube Video Editor", ShortDesc: "Professional video editing", DeliveryTime: 3, RevisionNumber: 2, Features: []string{"Color correction", "Transitions"}, Sales: 25, CreatedAt: at("2023-10-08T17:00:00Z")},
		{ID: "9", UserID: "109", Title: "I will build a responsive WordPress website", Desc: "A professional and mobile-friendly website for your business.", TotalStars: 5, StarNumber: 1, Category: CategoryProgramming, Price: 5000, Cover: pexels("1089438"), ShortTitle: "WordPress Website", ShortDesc: "Responsive WordPress website", DeliveryTime: 10, RevisionNumber: 3, Features: []string{"5 pages", "Contact form"}, Sales: 6, CreatedAt: at("2023-10-09T18:00:00Z")},
		{ID: "10", UserID: "110", Title: "I will fix bugs in your Python script", Desc: "Fast and efficient bug fixing for your Python code.", TotalStars: 4, StarNumber: 1, Category: CategoryProgramming, Price: 400, Cover: pexels("546819"), ShortTitle: "Python Bug Fix", ShortDesc: "Fast bug fixing", DeliveryTime: 1, RevisionNumber: 1, Features: []string{"Code review"}, Sales: 40, CreatedAt: at("2023-10-10T19:00:00Z")},
		{ID: "11", UserID: "111", Title: "I will be your virtual assistant", Desc: "Reliable virtual assistant for your administrative tasks.", TotalStars: 5, StarNumber: 1, Category: CategoryBusiness, Price: 1000, Cover: pexels("3184418"), ShortTitle: "Virtual Assistant", ShortDesc: "Reliable virtual assistant", DeliveryTime: 7, RevisionNumber: 0, Features: []string{"Data entry", "Email management"}, Sales: 15, CreatedAt: at("2023-10-11T20:00:00Z")},
		{ID: "12", UserID: "112", Title: "I will create a professional business plan", Desc: "A comprehensive business plan to secure funding.", TotalStars: 4, StarNumber: 1, Category: CategoryBusiness, Price: 3000, Cover: pexels("3183150"), ShortTitle: "Business Plan", ShortDesc: "Professional business plan", DeliveryTime: 14, RevisionNumber: 2, Features: []string{"Financial projections", "Market analysis"}, Sales: 7, CreatedAt: at("2023-10-12T21:00:00Z")},
		{ID: "13", UserID: "113", Title: "I will produce a custom beat for your song", Desc: "High-quality, original beats for your music projects.", TotalStars: 5, StarNumber: 1, Category: CategoryMusic, Price: 1200, Cover: pexels("3783471"), ShortTitle: "Custom Beat", ShortDesc: "Original beats", DeliveryTime: 5, RevisionNumber: 2, Features: []string{"WAV file", "Exclusive rights"}, Sales: 9, CreatedAt: at("2023-10-13T22:00:00Z")},
		{ID: "14", UserID: "114", Title: "I will mix and master your audio track", Desc: "Professional audio mixing and mastering services.", TotalStars: 5, StarNumber: 1, Category: CategoryMusic, Price: 900, Cover: pexels("164821"), ShortTitle: "Mix and Master", ShortDesc: "Professional audio mixing", DeliveryTime: 3, RevisionNumber: 1, Features: []string{"Noise reduction", "EQ and compression"}, Sales: 11, CreatedAt: at("2023-10-14T23:00:00Z")},
		{ID: "15", UserID: "115", Title: "I will build a custom AI chatbot", Desc: "An intelligent chatbot to automate your customer support.", TotalStars: 4, StarNumber: 1, Category: CategoryAI, Price: 4000, Cover: pexels("8386440"), ShortTitle: "AI Chatbot", ShortDesc: "Custom AI chatbot", DeliveryTime: 10, RevisionNumber: 3, Features: []string{"Integration with website", "NLP"}, Sales: 4, CreatedAt: at("2023-10-15T23:59:00Z")},
	}
	for i := range gigs {
		gigs[i].Images = []string{}
	}
	return gigs
}
