package marketplace

import "context"

// Service is the operation surface of the marketplace. Local runs it over a
// collection store; client.Client runs it against the HTTP API. Callers must
// not care which one they hold.
type Service interface {
	// accounts
	Register(ctx context.Context, req RegisterRequest) (Ack, error)
	Login(ctx context.Context, req LoginRequest) (*User, error)
	Logout(ctx context.Context) (Ack, error)
	CurrentUser(ctx context.Context) (*User, error)

	// users
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) (Ack, error)
	RequestSeller(ctx context.Context) (Ack, error)
	ToggleFavouriteGig(ctx context.Context, gigID string) ([]string, error)
	GetFavouriteGigs(ctx context.Context) ([]Gig, error)

	// gigs
	ListGigs(ctx context.Context, filter GigFilter) ([]Gig, error)
	GetGig(ctx context.Context, id string) (*Gig, error)
	GetMyGigs(ctx context.Context) ([]Gig, error)
	CreateGig(ctx context.Context, req CreateGigRequest) (*Gig, error)
	DeleteGig(ctx context.Context, id string) (Ack, error)

	// orders
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetOrders(ctx context.Context) ([]Order, error)
	ConfirmOrder(ctx context.Context, id string) (Ack, error)

	// reviews
	CreateReview(ctx context.Context, req CreateReviewRequest) (*Review, error)
	GetReviews(ctx context.Context, gigID string) ([]Review, error)
	DeleteReview(ctx context.Context, id string) (Ack, error)

	// conversations and messages
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error)
	GetConversations(ctx context.Context) ([]Conversation, error)
	GetSingleConversation(ctx context.Context, id string) (*Conversation, error)
	UpdateConversation(ctx context.Context, id string) (*Conversation, error)
	CreateMessage(ctx context.Context, req CreateMessageRequest) (*Message, error)
	GetMessages(ctx context.Context, conversationID string) ([]Message, error)

	// admin
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, sellersOnly bool) ([]User, error)
	SellerRequests(ctx context.Context) ([]User, error)
	ApproveSeller(ctx context.Context, userID string) (Ack, error)
	RejectSeller(ctx context.Context, userID string) (Ack, error)
	CreateEmployee(ctx context.Context, req RegisterRequest) (*User, error)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Country  string `json:"country" validate:"required"`
	Phone    string `json:"phone,omitempty" validate:"max=32"`
	Desc     string `json:"desc,omitempty" validate:"max=1000"`
	Img      string `json:"img,omitempty" validate:"omitempty,url"`
	// IsSeller asks for seller status; an admin grants it.
	IsSeller bool `json:"isSeller"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest changes only the non-empty fields.
type UpdateUserRequest struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Img     string `json:"img,omitempty" validate:"omitempty,url"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty" validate:"max=32"`
	Desc    string `json:"desc,omitempty" validate:"max=1000"`
}

type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortSales     SortKey = "sales"
	SortRating    SortKey = "rating"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// GigFilter narrows ListGigs. Zero values mean "no constraint"; an empty
// Sort means newest first.
type GigFilter struct {
	Category Category `json:"category,omitempty" query:"category"`
	Search   string   `json:"search,omitempty" query:"search"`
	Min      *int64   `json:"min,omitempty" query:"min"`
	Max      *int64   `json:"max,omitempty" query:"max"`
	Sort     SortKey  `json:"sort,omitempty" query:"sort"`
	UserID   string   `json:"userId,omitempty" query:"userId"`
}

type CreateGigRequest struct {
	// UserID defaults to the session user.
	UserID         string   `json:"userId,omitempty"`
	Title          string   `json:"title" validate:"required,max=120"`
	Desc           string   `json:"desc" validate:"required,max=5000"`
	Category       Category `json:"category" validate:"required,category"`
	Price          int64    `json:"price" validate:"required,gt=0"`
	Cover          string   `json:"cover" validate:"required"`
	Images         []string `json:"images" validate:"unique,dive,required"`
	ShortTitle     string   `json:"shortTitle" validate:"required,max=60"`
	ShortDesc      string   `json:"shortDesc" validate:"required,max=200"`
	DeliveryTime   int      `json:"deliveryTime" validate:"required,min=1"`
	RevisionNumber int      `json:"revisionNumber" validate:"min=1"`
	Features       []string `json:"features" validate:"unique,dive,required,max=60"`
}

type CreateOrderRequest struct {
	GigID string `json:"gigId" validate:"required"`
}

type CreateReviewRequest struct {
	GigID           string           `json:"gigId" validate:"required"`
	Star            int              `json:"star" validate:"required,min=1,max=5"`
	Desc            string           `json:"desc" validate:"required,max=1000"`
	DetailedRatings *DetailedRatings `json:"detailedRatings,omitempty" validate:"omitempty"`
}

type CreateConversationRequest struct {
	To string `json:"to" validate:"required"`
}

type CreateMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Desc           string `json:"desc" validate:"required,max=5000"`
}
