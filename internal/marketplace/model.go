package marketplace

import "time"

type Category string

const (
	CategoryDesign      Category = "design"
	CategoryMarketing   Category = "marketing"
	CategoryWriting     Category = "writing"
	CategoryVideo       Category = "video"
	CategoryProgramming Category = "programming"
	CategoryBusiness    Category = "business"
	CategoryMusic       Category = "music"
	CategoryAI          Category = "ai"
)

var Categories = []Category{
	CategoryDesign,
	CategoryMarketing,
	CategoryWriting,
	CategoryVideo,
	CategoryProgramming,
	CategoryBusiness,
	CategoryMusic,
	CategoryAI,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type SellerRequestStatus string

const (
	SellerRequestNone     SellerRequestStatus = "none"
	SellerRequestPending  SellerRequestStatus = "pending"
	SellerRequestApproved SellerRequestStatus = "approved"
	SellerRequestRejected SellerRequestStatus = "rejected"
)

// DetailedRatings are per-aspect averages on a 0-5 scale.
type DetailedRatings struct {
	Communication  float64 `json:"communication" validate:"min=0,max=5"`
	ServiceQuality float64 `json:"serviceQuality" validate:"min=0,max=5"`
	DeliveryTime   float64 `json:"deliveryTime" validate:"min=0,max=5"`
	ValueForMoney  float64 `json:"valueForMoney" validate:"min=0,max=5"`
}

type UserStats struct {
	AvgRating          float64         `json:"avgRating"`
	CompletedOrders    int             `json:"completedOrders"`
	TotalGigs          int             `json:"totalGigs"`
	TotalEarnings      int64           `json:"totalEarnings"`
	TotalReviews       int             `json:"totalReviews"`
	RecommendationRate int             `json:"recommendationRate"`
	DetailedRatings    DetailedRatings `json:"detailedRatings"`
}

type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// bcrypt hash; only ever present in the persisted record
	Password            string              `json:"password,omitempty"`
	Img                 string              `json:"img,omitempty"`
	Country             string              `json:"country"`
	Phone               string              `json:"phone,omitempty"`
	Desc                string              `json:"desc,omitempty"`
	IsSeller            bool                `json:"isSeller"`
	IsAdmin             bool                `json:"isAdmin"`
	SellerRequestStatus SellerRequestStatus `json:"sellerRequestStatus"`
	Favourites          []string            `json:"favourites"`
	Stats               UserStats           `json:"stats"`
	CreatedAt           time.Time           `json:"createdAt"`
}

// Public returns a copy safe to hand to callers.
func (u User) Public() User {
	u.Password = ""
	u.Favourites = append([]string{}, u.Favourites...)
	return u
}

func (u User) Role() string {
	switch {
	case u.IsAdmin:
		return "admin"
	case u.IsSeller:
		return "seller"
	default:
		return "buyer"
	}
}

func (u User) HasFavourite(gigID string) bool {
	for _, id := range u.Favourites {
		if id == gigID {
			return true
		}
	}
	return false
}

type Gig struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Desc           string    `json:"desc"`
	TotalStars     int       `json:"totalStars"`
	StarNumber     int       `json:"starNumber"`
	Category       Category  `json:"category"`
	Price          int64     `json:"price"`
	Cover          string    `json:"cover"`
	Images         []string  `json:"images"`
	ShortTitle     string    `json:"shortTitle"`
	ShortDesc      string    `json:"shortDesc"`
	DeliveryTime   int       `json:"deliveryTime"`
	RevisionNumber int       `json:"revisionNumber"`
	Features       []string  `json:"features"`
	Sales          int       `json:"sales"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Rating is the average star rating, 0 for a gig nobody has reviewed.
func (g Gig) Rating() float64 {
	if g.StarNumber == 0 {
		return 0
	}
	return float64(g.TotalStars) / float64(g.StarNumber)
}

type Order struct {
	ID          string    `json:"_id"`
	GigID       string    `json:"gigId"`
	Img         string    `json:"img"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	SellerID    string    `json:"sellerId"`
	BuyerID     string    `json:"buyerId"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Review struct {
	ID              string           `json:"_id"`
	GigID           string           `json:"gigId"`
	UserID          string           `json:"userId"`
	Star            int              `json:"star"`
	Desc            string           `json:"desc"`
	DetailedRatings *DetailedRatings `json:"detailedRatings,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type Conversation struct {
	ID           string    `json:"_id"`
	SellerID     string    `json:"sellerId"`
	BuyerID      string    `json:"buyerId"`
	ReadBySeller bool      `json:"readBySeller"`
	ReadByBuyer  bool      `json:"readByBuyer"`
	LastMessage  string    `json:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c Conversation) HasParticipant(userID string) bool {
	return c.SellerID == userID || c.BuyerID == userID
}

type Message struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	Desc           string    `json:"desc"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Stats struct {
	TotalUsers            int `json:"totalUsers"`
	TotalSellers          int `json:"totalSellers"`
	TotalGigs             int `json:"totalGigs"`
	TotalOrders           int `json:"totalOrders"`
	PendingSellerRequests int `json:"pendingSellerRequests"`
}

// Ack is the acknowledgement returned by commands that have no record to return.
type Ack struct {
	Message string `json:"message"`
}
