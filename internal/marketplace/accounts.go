package marketplace

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

func (l *Local) Register(ctx context.Context, req RegisterRequest) (Ack, error) {
	if _, err := l.addUser(ctx, req, false); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "User has been created successfully!"}, nil
}

// CreateEmployee adds an account that starts out as an approved seller.
// Only an admin may call it when a session is bound.
func (l *Local) CreateEmployee(ctx context.Context, req RegisterRequest) (*User, error) {
	return l.addUser(ctx, req, true)
}

func (l *Local) addUser(ctx context.Context, req RegisterRequest, employee bool) (*User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	if employee {
		if err := l.authorize(users); err != nil {
			return nil, err
		}
	}
	for _, u := range users {
		if u.Username == req.Username {
			return nil, fmt.Errorf("%w: username %q is taken", ErrDuplicateIdentity, req.Username)
		}
		if strings.EqualFold(u.Email, req.Email) {
			return nil, fmt.Errorf("%w: email %q is taken", ErrDuplicateIdentity, req.Email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := SellerRequestNone
	switch {
	case employee:
		status = SellerRequestApproved
	case req.IsSeller:
		status = SellerRequestPending
	}
	u := User{
		ID:                  l.newID(),
		Username:            req.Username,
		Email:               req.Email,
		Password:            string(hash),
		Img:                 req.Img,
		Country:             req.Country,
		Phone:               req.Phone,
		Desc:                req.Desc,
		IsSeller:            employee,
		SellerRequestStatus: status,
		Favourites:          []string{},
		CreatedAt:           l.now(),
	}
	if err := l.saveUsers(ctx, append(users, u)); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", u.ID, "username", u.Username, "seller_request", status, "employee", employee)
	l.emit(ctx, Event{Type: EventUserRegistered, UserID: u.ID, Email: u.Email, Username: u.Username})
	pub := u.Public()
	return &pub, nil
}

func (l *Local) Login(ctx context.Context, req LoginRequest) (*User, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	u, err := l.checkCredentials(ctx, req)
	if err != nil {
		return nil, err
	}
	l.session.Begin(u, "")
	if err := l.persistSession(ctx); err != nil {
		return nil, err
	}
	logger.Info("user logged in", "user_id", u.ID)
	return u, nil
}

// Authenticate checks credentials without touching the session. The HTTP
// login handler uses it before issuing a token.
func (l *Local) Authenticate(ctx context.Context, req LoginRequest) (*User, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	return l.checkCredentials(ctx, req)
}

func (l *Local) checkCredentials(ctx context.Context, req LoginRequest) (*User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username != req.Username {
			continue
		}
		if u.Password == "" || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		pub := u.Public()
		return &pub, nil
	}
	return nil, ErrInvalidCredentials
}

func (l *Local) Logout(ctx context.Context) (Ack, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	l.session.End()
	if err := l.persistSession(ctx); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "User has been logged out."}, nil
}

// CurrentUser re-reads the signed-in user so stats and favourites are fresh.
func (l *Local) CurrentUser(ctx context.Context) (*User, error) {
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
	pub := users[idx].Public()
	l.session.Refresh(&pub)
	return &pub, nil
}

// PromoteAdmin grants admin rights to the user with the given email.
func (l *Local) PromoteAdmin(ctx context.Context, email string) (*User, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		users[i].IsAdmin = true
		if err := l.saveUsers(ctx, users); err != nil {
			return nil, err
		}
		pub := users[i].Public()
		return &pub, nil
	}
	return nil, fmt.Errorf("%w: no user with email %q", ErrNotFound, email)
}
