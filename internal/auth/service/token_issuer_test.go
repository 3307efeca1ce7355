package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/myflix/backend/internal/auth/service"
	"github.com/myflix/backend/internal/common/clock"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func TestTokenIssuer_Issue_Success(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), 7*24*time.Hour, mockClock)

	token, err := issuer.Issue(userdomain.User{ID: "user-123", Username: "jsmith98"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token to be set")
	}
}

func TestTokenIssuer_Issue_DistinctTokens(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), 7*24*time.Hour, mockClock)

	user := userdomain.User{ID: "user-123", Username: "jsmith98"}

	first, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == second {
		t.Error("expected two tokens for the same identity to differ")
	}
}

func TestTokenIssuer_Issue_IDGenerationError(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ids := &mockIDGenerator{newIDFunc: func() (string, error) {
		return "", errors.New("id generation failed")
	}}
	issuer := service.NewTokenIssuer(testSecret, ids, 7*24*time.Hour, mockClock)

	_, err := issuer.Issue(userdomain.User{ID: "user-123", Username: "jsmith98"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), 7*24*time.Hour, mockClock)

	issued := userdomain.User{ID: "user-123", Username: "jsmith98", Email: "jsmith@example.com"}

	token, err := issuer.Issue(issued)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	repo := &mockUserRepo{}
	repo.findByIDFunc = func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
		if id != issued.ID {
			t.Errorf("expected lookup for %s, got %s", issued.ID, id)
		}
		return issued, nil
	}

	auth := service.NewTokenAuthenticator(repo, testSecret, mockClock, logger.NewNop())

	resolved, err := auth.Authenticate(context.Background(), service.Credentials{
		Token: "Bearer " + token,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resolved.ID != issued.ID || resolved.Username != issued.Username {
		t.Errorf("expected resolved identity %+v, got %+v", issued, resolved)
	}
}
