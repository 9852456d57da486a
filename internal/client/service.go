package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

type loginResponse struct {
	User  *marketplace.User `json:"user"`
	Token string            `json:"token"`
}

type favouritesResponse struct {
	Favourites []string `json:"favourites"`
}

func (c *Client) Register(ctx context.Context, req marketplace.RegisterRequest) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.send(ctx, http.MethodPost, "/api/auth/register", req, "", &ack)
	return ack, err
}

func (c *Client) Login(ctx context.Context, req marketplace.LoginRequest) (*marketplace.User, error) {
	var res loginResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", req, "", &res); err != nil {
		return nil, err
	}
	if res.User == nil || res.Token == "" {
		return nil, errors.New("login response missing user or token")
	}
	c.session.Begin(res.User, res.Token)
	return res.User, nil
}

// Logout always ends the local session, even when the server no longer
// accepts the token.
func (c *Client) Logout(ctx context.Context) (marketplace.Ack, error) {
	ack := marketplace.Ack{Message: "User has been logged out."}
	if c.session.Token() != "" {
		err := c.call(ctx, http.MethodPost, "/api/auth/logout", nil, &ack)
		if err != nil && !errors.Is(err, marketplace.ErrUnauthenticated) {
			return marketplace.Ack{}, err
		}
	}
	c.session.End()
	return ack, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*marketplace.User, error) {
	var u marketplace.User
	if err := c.authed(ctx, http.MethodGet, "/api/users/me", nil, &u); err != nil {
		return nil, err
	}
	c.session.Refresh(&u)
	return &u, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*marketplace.User, error) {
	var u marketplace.User
	if err := c.call(ctx, http.MethodGet, "/api/users/"+escape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req marketplace.UpdateUserRequest) (*marketplace.User, error) {
	var u marketplace.User
	if err := c.authed(ctx, http.MethodPut, "/api/users/"+escape(id), req, &u); err != nil {
		return nil, err
	}
	c.session.Refresh(&u)
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	if err := c.authed(ctx, http.MethodDelete, "/api/users/"+escape(id), nil, &ack); err != nil {
		return marketplace.Ack{}, err
	}
	if id == c.session.UserID() {
		c.session.End()
	}
	return ack, nil
}

func (c *Client) RequestSeller(ctx context.Context) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodPost, "/api/users/seller-request", nil, &ack)
	return ack, err
}

func (c *Client) ToggleFavouriteGig(ctx context.Context, gigID string) ([]string, error) {
	var res favouritesResponse
	if err := c.authed(ctx, http.MethodPut, "/api/users/favourites/"+escape(gigID), nil, &res); err != nil {
		return nil, err
	}
	if res.Favourites == nil {
		res.Favourites = []string{}
	}
	return res.Favourites, nil
}

// GetFavouriteGigs is empty when nobody is signed in, matching Local.
func (c *Client) GetFavouriteGigs(ctx context.Context) ([]marketplace.Gig, error) {
	if c.session.Token() == "" {
		return []marketplace.Gig{}, nil
	}
	gigs := []marketplace.Gig{}
	err := c.call(ctx, http.MethodGet, "/api/users/favourites", nil, &gigs)
	return gigs, err
}

func (c *Client) ListGigs(ctx context.Context, filter marketplace.GigFilter) ([]marketplace.Gig, error) {
	gigs := []marketplace.Gig{}
	err := c.call(ctx, http.MethodGet, "/api/gigs"+gigQuery(filter), nil, &gigs)
	return gigs, err
}

func (c *Client) GetGig(ctx context.Context, id string) (*marketplace.Gig, error) {
	var g marketplace.Gig
	if err := c.call(ctx, http.MethodGet, "/api/gigs/"+escape(id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) GetMyGigs(ctx context.Context) ([]marketplace.Gig, error) {
	gigs := []marketplace.Gig{}
	err := c.authed(ctx, http.MethodGet, "/api/gigs/mine", nil, &gigs)
	return gigs, err
}

func (c *Client) CreateGig(ctx context.Context, req marketplace.CreateGigRequest) (*marketplace.Gig, error) {
	var g marketplace.Gig
	if err := c.authed(ctx, http.MethodPost, "/api/gigs", req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGig(ctx context.Context, id string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodDelete, "/api/gigs/"+escape(id), nil, &ack)
	return ack, err
}

func (c *Client) CreateOrder(ctx context.Context, req marketplace.CreateOrderRequest) (*marketplace.Order, error) {
	var o marketplace.Order
	if err := c.authed(ctx, http.MethodPost, "/api/orders", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) GetOrders(ctx context.Context) ([]marketplace.Order, error) {
	orders := []marketplace.Order{}
	err := c.authed(ctx, http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}

func (c *Client) ConfirmOrder(ctx context.Context, id string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodPut, "/api/orders/"+escape(id), nil, &ack)
	return ack, err
}

func (c *Client) CreateReview(ctx context.Context, req marketplace.CreateReviewRequest) (*marketplace.Review, error) {
	var r marketplace.Review
	if err := c.authed(ctx, http.MethodPost, "/api/reviews", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetReviews(ctx context.Context, gigID string) ([]marketplace.Review, error) {
	reviews := []marketplace.Review{}
	err := c.call(ctx, http.MethodGet, "/api/reviews/"+escape(gigID), nil, &reviews)
	return reviews, err
}

func (c *Client) DeleteReview(ctx context.Context, id string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodDelete, "/api/reviews/"+escape(id), nil, &ack)
	return ack, err
}

func (c *Client) CreateConversation(ctx context.Context, req marketplace.CreateConversationRequest) (*marketplace.Conversation, error) {
	var conv marketplace.Conversation
	if err := c.authed(ctx, http.MethodPost, "/api/conversations", req, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) GetConversations(ctx context.Context) ([]marketplace.Conversation, error) {
	convs := []marketplace.Conversation{}
	err := c.authed(ctx, http.MethodGet, "/api/conversations", nil, &convs)
	return convs, err
}

func (c *Client) GetSingleConversation(ctx context.Context, id string) (*marketplace.Conversation, error) {
	var conv marketplace.Conversation
	if err := c.authed(ctx, http.MethodGet, "/api/conversations/single/"+escape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) UpdateConversation(ctx context.Context, id string) (*marketplace.Conversation, error) {
	var conv marketplace.Conversation
	if err := c.authed(ctx, http.MethodPut, "/api/conversations/"+escape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) CreateMessage(ctx context.Context, req marketplace.CreateMessageRequest) (*marketplace.Message, error) {
	var m marketplace.Message
	if err := c.authed(ctx, http.MethodPost, "/api/messages", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]marketplace.Message, error) {
	msgs := []marketplace.Message{}
	err := c.authed(ctx, http.MethodGet, "/api/messages/"+escape(conversationID), nil, &msgs)
	return msgs, err
}

func (c *Client) Stats(ctx context.Context) (*marketplace.Stats, error) {
	var s marketplace.Stats
	if err := c.authed(ctx, http.MethodGet, "/api/admin/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListUsers(ctx context.Context, sellersOnly bool) ([]marketplace.User, error) {
	path := "/api/admin/users"
	if sellersOnly {
		path += "?sellers=true"
	}
	users := []marketplace.User{}
	err := c.authed(ctx, http.MethodGet, path, nil, &users)
	return users, err
}

func (c *Client) SellerRequests(ctx context.Context) ([]marketplace.User, error) {
	users := []marketplace.User{}
	err := c.authed(ctx, http.MethodGet, "/api/admin/seller-requests", nil, &users)
	return users, err
}

func (c *Client) ApproveSeller(ctx context.Context, userID string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodPost, "/api/admin/sellers/"+escape(userID)+"/approve", nil, &ack)
	return ack, err
}

func (c *Client) RejectSeller(ctx context.Context, userID string) (marketplace.Ack, error) {
	var ack marketplace.Ack
	err := c.authed(ctx, http.MethodPost, "/api/admin/sellers/"+escape(userID)+"/reject", nil, &ack)
	return ack, err
}

func (c *Client) CreateEmployee(ctx context.Context, req marketplace.RegisterRequest) (*marketplace.User, error) {
	var u marketplace.User
	if err := c.authed(ctx, http.MethodPost, "/api/admin/users", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
