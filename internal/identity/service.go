// internal/identity/service.go
package identity

import (
	"context"
	"log"
	"net/mail"
	"strings"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is returned on successful login.
type Session struct {
	Token   string  `json:"token"`
	Role    string  `json:"role"`
	Account Account `json:"account"`
}

type Service struct {
	Dir      Directory
	Tokens   *auth.TokenManager
	Notifier notify.Notifier
}

func NewService(dir Directory, tokens *auth.TokenManager, n notify.Notifier) *Service {
	return &Service{Dir: dir, Tokens: tokens, Notifier: n}
}

// Register creates a pending account. Admin accounts are only seeded, never registered.
func (s *Service) Register(ctx context.Context, role models.Role, p Profile) (Account, error) {
	if role == models.RoleAdmin || !role.Valid() {
		return nil, apperr.Validation("invalid section %q", role)
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(p.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	existing, err := s.Dir.FindByEmail(ctx, role, p.Email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindServer, "failed to hash password", err)
	}
	acct, err := NewAccount(role, p, hash)
	if err != nil {
		return nil, err
	}
	if err := s.Dir.Insert(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Login checks the password and the approval gate, then issues a session token.
func (s *Service) Login(ctx context.Context, role models.Role, email, password string) (*Session, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid section %q", role)
	}
	acct, err := s.Dir.FindByEmail(ctx, role, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, err
	}
	if acct.PasswordHash() == "" || !auth.CheckPasswordHash(password, acct.PasswordHash()) {
		return nil, apperr.Authentication("invalid email or password")
	}
	return s.IssueSession(acct)
}

// IssueSession applies the approval gate and signs a token. OTP and federated
// logins call this after verifying the user themselves.
func (s *Service) IssueSession(acct Account) (*Session, error) {
	if err := CheckApproval(acct); err != nil {
		return nil, err
	}
	token, err := s.Tokens.GenerateJWT(acct.AccountID().Hex(), acct.ContactEmail(), string(acct.Role()))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindServer, "failed to issue token", err)
	}
	return &Session{Token: token, Role: string(acct.Role()), Account: acct}, nil
}

// SetApproval is the admin approve/reject action on an account.
func (s *Service) SetApproval(ctx context.Context, role models.Role, id string, approval models.Approval) (Account, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid section %q", role)
	}
	if approval != models.ApprovalApproved && approval != models.ApprovalRejected {
		return nil, apperr.Validation("status must be Approved or Reject")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	acct, err := s.Dir.FindByID(ctx, role, oid)
	if err != nil {
		return nil, err
	}
	if err := s.Dir.SetApproval(ctx, role, oid, approval); err != nil {
		return nil, err
	}

	kind := notify.AccountApproved
	if approval == models.ApprovalRejected {
		kind = notify.AccountRejected
	}
	msg := notify.Message{
		To:      acct.ContactEmail(),
		UserID:  oid.Hex(),
		Kind:    kind,
		Payload: map[string]any{"name": acct.DisplayName(), "section": string(role)},
	}
	if err := s.Notifier.Notify(ctx, msg); err != nil {
		log.Printf("WARN: failed to send %s notification to %s: %v", kind, acct.ContactEmail(), err)
	}

	return s.Dir.FindByID(ctx, role, oid)
}
