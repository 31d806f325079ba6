package http

import (
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"shinypath-api/res/auth"
	"shinypath-api/res/store"
	"shinypath-api/sys/http/middleware"
)

const userDisplayNamePlaceholderDefault string = "User"

type authResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *store.User `json:"user"`
}

// issueSession creates a refresh session for the user and wraps both tokens.
func (s *Server) issueSession(c *gin.Context, user *store.User) (*authResult, error) {
	ctx := c.Request.Context()

	err := s.Store.AuthSessions().DeleteExpired(ctx, time.Now().Add(-auth.RefreshTokenLifespanInHours*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("removing expired refresh sessions: %w", err)
	}

	refreshTokenValue := fmt.Sprintf("%s:%s", "auth_refresh_tok", xid.New().String())

	refreshSession, err := s.Store.AuthSessions().Create(ctx, refreshTokenValue, user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating refresh session: %w", err)
	}

	refreshToken, err := s.Auth.GenerateRefreshToken(user.ID, refreshSession.ID)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	accessToken, err := s.Auth.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &authResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

type googleAuthRequest struct {
	Code string `json:"code"`
}

func (s *Server) authWithGoogle(c *gin.Context) {
	if middleware.GetCurrentUser(c) != nil {
		c.JSON(nethttp.StatusForbidden, gin.H{"error": "Session already associated with a user"})
		return
	}

	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	ctx := c.Request.Context()

	// 1. Social identity validation
	userMetadata, err := s.Auth.AuthorizationWithGoogle(ctx, req.Code)
	if err != nil {
		s.Logger.Printf("Error authorizing Google access code: %s", err)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "Error authorizing google access code"})
		return
	}

	// 2. Detect existing user
	associatedUser, err := s.Store.Users().GetByGoogleIdentity(ctx, userMetadata.Identifier)
	if err != nil {
		s.Logger.Printf("Error retrieving user through google identifier: %s", err)
	}

	if associatedUser == nil {
		// First sign-in: register. The configured admin address gets the
		// admin role, everyone else starts as staff.
		userID := fmt.Sprintf("%s_%s", "user", xid.New().String())
		userName := userDisplayNamePlaceholderDefault
		if userMetadata.DisplayName != nil && len(*userMetadata.DisplayName) > 0 {
			userName = *userMetadata.DisplayName
		}

		role := store.UserRoleStaff
		if s.AdminEmail != "" && strings.EqualFold(userMetadata.Email, s.AdminEmail) {
			role = store.UserRoleAdmin
		}

		googleIdentity := userMetadata.Identifier
		associatedUser, err = s.Store.Users().Create(ctx, userID, userName, userMetadata.Email, role, &googleIdentity)
		if err != nil {
			s.Logger.Printf("Error creating user: %s", err)
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}
	}

	// 3. Create and store the refresh token, wrap both tokens
	result, err := s.issueSession(c, associatedUser)
	if err != nil {
		s.Logger.Printf("Error creating auth session: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error creating auth session"})
		return
	}

	c.JSON(nethttp.StatusOK, result)
}

type refreshAuthRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) authWithRefreshToken(c *gin.Context) {
	var req refreshAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	ctx := c.Request.Context()

	// 1. Validate refresh token and associated session/user
	var claims auth.RefreshTokenClaims
	if err := s.Auth.ValidateToken(req.RefreshToken, &claims); err != nil {
		s.Logger.Printf("Error validating refresh token: %s", err)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "Refresh token expired or malformed"})
		return
	}

	user, err := s.Store.Users().Get(ctx, claims.UserID)
	if err != nil || user == nil {
		s.Logger.Printf("Error retrieving user associated with the refresh token: %s", err)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "Refresh token expired or malformed"})
		return
	}

	currentRefreshSession, err := s.Store.AuthSessions().Get(ctx, claims.RefreshTokenValue)
	if err != nil || currentRefreshSession == nil {
		s.Logger.Printf("Error retrieving refresh session: %s", err)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "Refresh token expired or malformed"})
		return
	}

	// 2. Rotate: the presented session is single-use
	if err := s.Store.AuthSessions().Delete(ctx, []string{currentRefreshSession.ID}); err != nil {
		s.Logger.Printf("Error rotating refresh session: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error creating auth session"})
		return
	}

	result, err := s.issueSession(c, user)
	if err != nil {
		s.Logger.Printf("Error creating auth session: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error creating auth session"})
		return
	}

	c.JSON(nethttp.StatusOK, result)
}

func (s *Server) logout(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c)

	if err := s.Store.AuthSessions().DeleteAllByUser(c.Request.Context(), currentUser.ID); err != nil {
		s.Logger.Printf("Error removing auth sessions for user %s: %s", currentUser.ID, err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error ending session"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"loggedOut": true})
}

func (s *Server) currentUser(c *gin.Context) {
	c.JSON(nethttp.StatusOK, middleware.GetCurrentUser(c))
}
