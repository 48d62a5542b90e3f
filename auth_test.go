package main

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesCustomerProfile(t *testing.T) {
	auth := NewAuthService(&fakeProfileRepo{})

	profile, err := auth.Register(context.Background(), "New@Example.COM", "secret123", "  New User  ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Role != RoleCustomer {
		t.Fatalf("expected customer role, got %q", profile.Role)
	}
	if profile.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", profile.Email)
	}
	if profile.FullName != "New User" {
		t.Fatalf("expected trimmed name, got %q", profile.FullName)
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("secret123")) != nil {
		t.Fatal("stored hash does not verify the password")
	}
	if profile.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := NewAuthService(&fakeProfileRepo{})
	ctx := context.Background()

	if _, err := auth.Register(ctx, "not-an-email", "secret123", ""); ErrKind(err) != KindValidation {
		t.Fatalf("expected validation failure for bad email, got %v", err)
	}
	if _, err := auth.Register(ctx, "ok@x.com", "tiny", ""); ErrKind(err) != KindValidation {
		t.Fatalf("expected validation failure for short password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := NewAuthService(&fakeProfileRepo{})
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dup@x.com", "secret123", "First"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := auth.Register(ctx, "dup@x.com", "secret123", "Second")
	if err == nil || ErrKind(err) != KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := &fakeProfileRepo{}
	auth := NewAuthService(repo)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "login@x.com", "secret123", "Login User")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, profile, err := auth.Login(ctx, "login@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if profile.ID != registered.ID {
		t.Fatalf("expected profile %q, got %q", registered.ID, profile.ID)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != registered.ID {
		t.Fatalf("expected sub claim %q, got %v", registered.ID, claims["sub"])
	}
	if claims["role"] != RoleCustomer {
		t.Fatalf("expected role claim customer, got %v", claims["role"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := NewAuthService(&fakeProfileRepo{})
	ctx := context.Background()

	if _, err := auth.Register(ctx, "who@x.com", "secret123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong password and unknown email look the same to the caller.
	if _, _, err := auth.Login(ctx, "who@x.com", "wrongpass"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@x.com", "secret123"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestUpdateFullName(t *testing.T) {
	repo := &fakeProfileRepo{}
	auth := NewAuthService(repo)
	ctx := context.Background()

	profile, err := auth.Register(ctx, "name@x.com", "secret123", "Before")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.UpdateFullName(ctx, profile.ID, "After"); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := auth.CurrentProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("current profile: %v", err)
	}
	if updated.FullName != "After" {
		t.Fatalf("expected updated name, got %q", updated.FullName)
	}
	if updated.Role != RoleCustomer {
		t.Fatalf("role changed unexpectedly: %q", updated.Role)
	}

	if err := auth.UpdateFullName(ctx, "prof-404", "Ghost"); ErrKind(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
