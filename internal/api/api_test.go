package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/talktrade/internal/auth"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
	"github.com/sudo-init-do/talktrade/internal/messaging"
	"github.com/sudo-init-do/talktrade/internal/store"
)

type testServer struct {
	t    *testing.T
	e    *echo.Echo
	data *marketplace.Local
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	data := marketplace.NewLocal(store.NewMemory(), marketplace.WithAdminPassword("admin-pw"))
	require.NoError(t, data.Bootstrap(context.Background()))

	e := echo.New()
	New(data, auth.NewTokens("test-secret", time.Hour), messaging.NewHub()).Routes(e, Options{})
	return &testServer{t: t, e: e, data: data}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) register(username string, seller bool) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", marketplace.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123456",
		Country:  "Nigeria",
		IsSeller: seller,
	}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(username, password string) LoginResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", marketplace.LoginRequest{Username: username, Password: password}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[LoginResponse](s.t, rec)
}

// seller registers, gets approved by the admin and logs in again.
func (s *testServer) seller(username string) LoginResponse {
	s.t.Helper()
	s.register(username, true)
	pending := s.login(username, "pw123456")
	admin := s.login("admin", "admin-pw")
	rec := s.do(http.MethodPost, "/api/admin/sellers/"+pending.User.ID+"/approve", nil, admin.Token)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return s.login(username, "pw123456")
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func gigBody(title string) marketplace.CreateGigRequest {
	return marketplace.CreateGigRequest{
		Title:          title,
		Desc:           "Logo design in three days.",
		Category:       marketplace.CategoryDesign,
		Price:          40,
		Cover:          "https://example.com/cover.jpg",
		Images:         []string{},
		ShortTitle:     "Logo",
		ShortDesc:      "Logo design",
		DeliveryTime:   3,
		RevisionNumber: 1,
		Features:       []string{"Source file"},
	}
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", nil, "").Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)

	res := s.login("ada", "pw123456")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ada", res.User.Username)
	assert.Empty(t, res.User.Password)

	rec := s.do(http.MethodGet, "/api/users/me", nil, res.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res.User.ID, decode[marketplace.User](t, rec).ID)
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)

	rec := s.do(http.MethodPost, "/api/auth/register", marketplace.RegisterRequest{
		Username: "ada", Email: "other@example.com", Password: "pw123456", Country: "Nigeria",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, marketplace.CodeDuplicateIdentity, decode[errorBody](t, rec).Code)

	rec = s.do(http.MethodPost, "/api/auth/register", marketplace.RegisterRequest{Username: "bo"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, marketplace.CodeInvalidInput, decode[errorBody](t, rec).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)

	rec := s.do(http.MethodPost, "/api/auth/login", marketplace.LoginRequest{Username: "ada", Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, marketplace.CodeInvalidCredentials, decode[errorBody](t, rec).Code)
}

func TestProtectedRouteNeedsToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, marketplace.CodeUnauthenticated, decode[errorBody](t, rec).Code)

	rec = s.do(http.MethodGet, "/api/orders", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListGigsQuery(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/gigs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]marketplace.Gig](t, rec), 15)

	rec = s.do(http.MethodGet, "/api/gigs?min=50&max=100&sort=price_asc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	gigs := decode[[]marketplace.Gig](t, rec)
	require.NotEmpty(t, gigs)
	for i, g := range gigs {
		assert.GreaterOrEqual(t, g.Price, int64(50))
		assert.LessOrEqual(t, g.Price, int64(100))
		if i > 0 {
			assert.LessOrEqual(t, gigs[i-1].Price, g.Price)
		}
	}

	rec = s.do(http.MethodGet, "/api/gigs?min=cheap", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/gigs?category=gardening", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingGig(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/gigs/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, marketplace.CodeNotFound, decode[errorBody](t, rec).Code)
}

func TestBuyerCannotCreateGig(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")

	rec := s.do(http.MethodPost, "/api/gigs", gigBody("Logo"), buyer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	seller := s.seller("sam")
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")

	rec := s.do(http.MethodPost, "/api/gigs", gigBody("Logo"), seller.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gig := decode[marketplace.Gig](t, rec)
	assert.Equal(t, seller.User.ID, gig.UserID)

	rec = s.do(http.MethodPost, "/api/orders", marketplace.CreateOrderRequest{GigID: gig.ID}, buyer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[marketplace.Order](t, rec)
	assert.False(t, order.IsCompleted)

	// only the seller may confirm
	rec = s.do(http.MethodPut, "/api/orders/"+order.ID, nil, buyer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/orders/"+order.ID, nil, seller.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order confirmed", decode[marketplace.Ack](t, rec).Message)

	rec = s.do(http.MethodGet, "/api/orders", nil, buyer.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]marketplace.Order](t, rec)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].IsCompleted)

	rec = s.do(http.MethodGet, "/api/gigs/"+gig.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[marketplace.Gig](t, rec).Sales)
}

func TestReviewRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")

	rec := s.do(http.MethodPost, "/api/reviews", marketplace.CreateReviewRequest{GigID: "1", Star: 4, Desc: "Good"}, buyer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[marketplace.Review](t, rec)

	rec = s.do(http.MethodGet, "/api/reviews/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]marketplace.Review](t, rec), 1)

	rec = s.do(http.MethodDelete, "/api/reviews/"+review.ID, nil, buyer.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/reviews/1", nil, "")
	assert.Empty(t, decode[[]marketplace.Review](t, rec))
}

func TestFavouriteRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")

	rec := s.do(http.MethodPut, "/api/users/favourites/2", nil, buyer.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2"}, decode[FavouritesResponse](t, rec).Favourites)

	rec = s.do(http.MethodGet, "/api/users/favourites", nil, buyer.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	gigs := decode[[]marketplace.Gig](t, rec)
	require.Len(t, gigs, 1)
	assert.Equal(t, "2", gigs[0].ID)
}

func TestConversationRoutes(t *testing.T) {
	s := newTestServer(t)
	seller := s.seller("sam")
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")
	s.register("eve", false)
	eve := s.login("eve", "pw123456")

	rec := s.do(http.MethodPost, "/api/conversations", marketplace.CreateConversationRequest{To: seller.User.ID}, buyer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conv := decode[marketplace.Conversation](t, rec)

	rec = s.do(http.MethodPost, "/api/messages", marketplace.CreateMessageRequest{ConversationID: conv.ID, Desc: "Hello"}, buyer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/messages/"+conv.ID, nil, seller.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]marketplace.Message](t, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello", msgs[0].Desc)

	rec = s.do(http.MethodPut, "/api/conversations/"+conv.ID, nil, seller.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[marketplace.Conversation](t, rec).ReadBySeller)

	rec = s.do(http.MethodGet, "/api/conversations/single/"+conv.ID, nil, eve.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/messages/"+conv.ID+"/ws", nil, eve.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")
	s.register("sam", true)

	rec := s.do(http.MethodGet, "/api/admin/stats", nil, buyer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.login("admin", "admin-pw")
	rec = s.do(http.MethodGet, "/api/admin/stats", nil, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[marketplace.Stats](t, rec)
	assert.Equal(t, 15, stats.TotalGigs)

	rec = s.do(http.MethodGet, "/api/admin/seller-requests", nil, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]marketplace.User](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, "sam", pending[0].Username)

	rec = s.do(http.MethodPost, "/api/admin/sellers/"+pending[0].ID+"/reject", nil, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Seller rejected", decode[marketplace.Ack](t, rec).Message)

	rec = s.do(http.MethodPost, "/api/admin/sellers/"+pending[0].ID+"/approve", nil, admin.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/users?sellers=true", nil, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, u := range decode[[]marketplace.User](t, rec) {
		assert.True(t, u.IsSeller)
	}
}

func TestAdminCreatesEmployee(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	buyer := s.login("ada", "pw123456")
	body := marketplace.RegisterRequest{
		Username: "emma",
		Email:    "emma@example.com",
		Password: "pw123456",
		Country:  "Ghana",
	}

	rec := s.do(http.MethodPost, "/api/admin/users", body, buyer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.login("admin", "admin-pw")
	rec = s.do(http.MethodPost, "/api/admin/users", body, admin.Token)
	require.Equal(t, http.StatusCreated, rec.Code)
	u := decode[marketplace.User](t, rec)
	assert.True(t, u.IsSeller)
	assert.Equal(t, marketplace.SellerRequestApproved, u.SellerRequestStatus)

	rec = s.do(http.MethodPost, "/api/admin/users", body, admin.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	emma := s.login("emma", "pw123456")
	rec = s.do(http.MethodPost, "/api/gigs", gigBody("Logo design"), emma.Token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteUserRequiresSelf(t *testing.T) {
	s := newTestServer(t)
	s.register("ada", false)
	ada := s.login("ada", "pw123456")
	s.register("eve", false)
	eve := s.login("eve", "pw123456")

	rec := s.do(http.MethodDelete, "/api/users/"+ada.User.ID, nil, eve.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/api/users/"+ada.User.ID, nil, ada.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	// the token outlives the account
	rec = s.do(http.MethodGet, "/api/users/me", nil, ada.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusFor(marketplace.ErrDuplicateIdentity))
	assert.Equal(t, http.StatusNotFound, StatusFor(marketplace.ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(marketplace.ErrInvalidState))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
