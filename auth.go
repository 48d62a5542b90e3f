package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "defaultsecret"
	}
	return []byte(secret)
}

// GenerateToken issues a signed session token carrying the profile id and
// role. The role claim is advisory for the HTTP layer; the repositories
// re-check it on every write.
func GenerateToken(profileID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  profileID,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// AuthService is the authentication collaborator: sign-up, credential
// sign-in and session identity lookup over the profiles collection.
type AuthService struct {
	profiles ProfileRepository
}

func NewAuthService(profiles ProfileRepository) *AuthService {
	return &AuthService{profiles: profiles}
}

// Register creates the application profile for a new identity. Every new
// account gets the customer role; admins are bootstrapped out of band.
func (a *AuthService) Register(ctx context.Context, email, password, fullName string) (Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Profile{}, validationErr("a valid email is required")
	}
	if len(password) < 6 {
		return Profile{}, validationErr("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, transportErr("hash password", err)
	}

	return a.profiles.Insert(ctx, Profile{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         RoleCustomer,
		PasswordHash: string(hash),
	})
}

// Login verifies credentials and returns a session token plus the profile.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, Profile, error) {
	profile, err := a.profiles.GetByEmail(ctx, email)
	if err != nil {
		if ErrKind(err) == KindNotFound {
			return "", Profile{}, permissionErr("invalid credentials")
		}
		return "", Profile{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", Profile{}, permissionErr("invalid credentials")
	}

	token, err := GenerateToken(profile.ID, profile.Role)
	if err != nil {
		return "", Profile{}, transportErr("generate token", err)
	}
	return token, profile, nil
}

// CurrentProfile resolves the session identity to its profile.
func (a *AuthService) CurrentProfile(ctx context.Context, id string) (Profile, error) {
	return a.profiles.GetByID(ctx, id)
}

// UpdateFullName is the only client-reachable profile mutation. Email is the
// auth identity and role is immutable, so neither can be changed here.
func (a *AuthService) UpdateFullName(ctx context.Context, id, fullName string) error {
	return a.profiles.UpdateFullName(ctx, id, fullName)
}

// -----------------------------
// Handlers
// -----------------------------

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) Signup(c *gin.Context) {
	var body SignupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	profile, err := api.auth.Register(c.Request.Context(), body.Email, body.Password, body.FullName)
	if err != nil {
		respondErr(c, err)
		return
	}

	token, err := GenerateToken(profile.ID, profile.Role)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

func (api *API) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, profile, err := api.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			jsonError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

func (api *API) Me(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := api.auth.CurrentProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

func (api *API) UpdateMe(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := api.auth.UpdateFullName(c.Request.Context(), actor.ID, body.FullName); err != nil {
		respondErr(c, err)
		return
	}

	profile, err := api.auth.CurrentProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
