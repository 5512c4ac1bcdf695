package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/pkg/token"
)

type stubAccountRepo struct {
	accounts  map[string]*domain.Account // keyed by normalized login name
	nextID    int
	createErr error
	findErr   error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	key := domain.NormalizeLoginName(account.LoginName)
	if _, exists := r.accounts[key]; exists {
		return nil, domain.ErrLoginNameTaken
	}
	r.nextID++
	stored := cloneAccount(account)
	stored.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.accounts[key] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByLoginName(_ context.Context, loginName string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.accounts[domain.NormalizeLoginName(loginName)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

var testTokens = token.NewManager(token.Config{
	Key:      []byte("0123456789abcdef0123456789abcdef"),
	Issuer:   "todo-api",
	Audience: "todo-clients",
	TTL:      24 * time.Hour,
})

func newTestAuthService(repo ports.AccountRepository) *AuthService {
	svc := NewAuthService(repo, testTokens, zerolog.Nop())
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	account, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "alice", Secret: "secret1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if account.PasswordHash == "secret1" {
		t.Fatalf("expected secret to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match secret: %v", err)
	}
	if account.Profile.FirstName != domain.DefaultFirstName || account.Profile.PhoneNumber != domain.DefaultPhoneNumber {
		t.Fatalf("expected placeholder profile, got %+v", account.Profile)
	}
}

func TestAuthService_Register_KeepsSuppliedProfile(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	account, err := svc.Register(context.Background(), ports.RegisterInput{
		LoginName: "bob",
		Secret:    "secret1",
		Profile:   domain.Profile{FirstName: "Bob", Address: "1 Main St"},
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	want := domain.Profile{
		FirstName:   "Bob",
		LastName:    domain.DefaultLastName,
		Address:     "1 Main St",
		PhoneNumber: domain.DefaultPhoneNumber,
	}
	if account.Profile != want {
		t.Fatalf("unexpected profile: %+v", account.Profile)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"empty login", ports.RegisterInput{LoginName: "", Secret: "secret1"}},
		{"blank login", ports.RegisterInput{LoginName: "   ", Secret: "secret1"}},
		{"short secret", ports.RegisterInput{LoginName: "carol", Secret: "12345"}},
		{"long secret", ports.RegisterInput{LoginName: "carol", Secret: strings.Repeat("x", 73)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "dave", Secret: "secret1"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "DAVE", Secret: "secret2"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate login, got %v", err)
	}
}

func TestAuthService_Register_StoreError(t *testing.T) {
	repo := newStubAccountRepo()
	repo.createErr = errors.New("connection refused")
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "erin", Secret: "secret1"})
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	registered, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "alice", Secret: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	issued, account, err := svc.Authenticate(context.Background(), "Alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if account.ID != registered.ID {
		t.Fatalf("unexpected account: %+v", account)
	}

	claims, err := testTokens.Verify(issued.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("expected subject %s, got %s", registered.ID, claims.Subject)
	}
	if claims.Name != "alice" {
		t.Fatalf("expected display name alice, got %s", claims.Name)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %s", got)
	}
	if !issued.ExpiresAt.Equal(claims.ExpiresAt.Time) {
		t.Fatalf("expiresAt mismatch: %s vs %s", issued.ExpiresAt, claims.ExpiresAt.Time)
	}
}

func TestAuthService_Authenticate_NoInformationLeak(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())
	if _, err := svc.Register(context.Background(), ports.RegisterInput{LoginName: "frank", Secret: "goodpass"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongSecret := svc.Authenticate(context.Background(), "frank", "badpass")
	_, _, unknownUser := svc.Authenticate(context.Background(), "ghost", "goodpass")

	if wrongSecret != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong secret, got %v", wrongSecret)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownUser)
	}
	if wrongSecret.Error() != unknownUser.Error() {
		t.Fatalf("errors differ: %q vs %q", wrongSecret, unknownUser)
	}
}

func TestAuthService_Authenticate_EmptyInput(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo())

	if _, _, err := svc.Authenticate(context.Background(), "", "x"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreError(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("store unavailable")
	svc := newTestAuthService(repo)

	_, _, err := svc.Authenticate(context.Background(), "alice", "secret1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}
