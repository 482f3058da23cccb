package server

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"aurora/internal/models"
	"aurora/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "aurora-api"
	tokenAudience = "aurora-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// Signup handles user registration
// @Summary Register a new user
// @Description Create a user account with username, email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	// An empty hash means the account was created through OAuth and has no
	// password to compare against. Same error either way to avoid leaking
	// which accounts exist.
	if user == nil || user.Password == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewInvalidCredentialError())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewInvalidCredentialError())
	}

	if err := s.userRepo.HydrateEdges(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GoogleLogin handles sign-in with a Google ID token
// @Summary Log in or register via Google
// @Description Verifies a Google ID token, linking by Google subject first and email second, creating an account if neither matches
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{id_token=string} true "Google ID token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/google [post]
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing id_token"))
	}

	claims, err := s.google.Verify(c.UserContext(), req.IDToken)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewInvalidCredentialError())
	}

	user, err := s.resolveGoogleUser(c.UserContext(), claims)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.userRepo.HydrateEdges(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// resolveGoogleUser finds the account for a verified Google identity. Lookup
// order is Google subject, then email (linking the subject to an existing
// password account), then a fresh account.
func (s *Server) resolveGoogleUser(ctx context.Context, claims *GoogleClaims) (*models.User, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	email := strings.ToLower(claims.Email)
	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.GoogleID = &claims.Subject
		if user.Avatar == "" {
			user.Avatar = claims.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	username, err := s.deriveUsername(ctx, email, claims.Name)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username: username,
		Email:    email,
		GoogleID: &claims.Subject,
		Avatar:   claims.Picture,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

var usernameCleaner = regexp.MustCompile(`[^a-z0-9_]`)

// deriveUsername builds a unique username from a Google profile, probing
// numeric suffixes until one is free.
func (s *Server) deriveUsername(ctx context.Context, email, name string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	base = usernameCleaner.ReplaceAllString(strings.ToLower(base), "")
	if len(base) < 3 {
		base = "user_" + base
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 0; i < 20; i++ {
		existing, err := s.userRepo.GetByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i+1)
	}
	// Username space around the base is saturated; fall back to a random tail.
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8]), nil
}

// generateToken creates a signed JWT for the given user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"username": user.Username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI returns a unique token identifier.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:13])
}
