package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// AuthClaims represents JWT token claims. UserID is the internal user uuid;
// downstream services never see provider identities.
type AuthClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// RefreshTokenData stores information about an issued refresh token
type RefreshTokenData struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the response for a completed login
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	TokenType    string      `json:"tokenType"`
	ExpiresIn    int64       `json:"expiresIn"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	Profile      UserProfile `json:"profile"`
}

// AuthService provides authentication functionality: OAuth login against the
// configured providers, user provisioning by verified email, and JWT
// issuance/validation for every subsequent request.
type AuthService struct {
	config        *AuthConfig
	githubClients map[string]*GitHubClient
	refreshTokens map[string]*RefreshTokenData
	tokenMutex    sync.RWMutex
	userRepo      repository.UserRepositoryInterface
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, userRepo repository.UserRepositoryInterface) (*AuthService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	githubClients := make(map[string]*GitHubClient)
	for providerName, providerConfig := range config.Providers {
		githubClients[providerName] = NewGitHubClient(&providerConfig)
	}

	return &AuthService{
		config:        config,
		githubClients: githubClients,
		refreshTokens: make(map[string]*RefreshTokenData),
		userRepo:      userRepo,
	}, nil
}

// GetAuthURL generates an OAuth2 authorization URL for the provider
func (s *AuthService) GetAuthURL(provider, state string) (string, error) {
	githubClient, exists := s.githubClients[provider]
	if !exists {
		return "", fmt.Errorf("provider '%s' not found", provider)
	}

	callbackURL := fmt.Sprintf("%s/api/v1/auth/%s/callback", s.config.RedirectURL, provider)
	return githubClient.GetOAuth2Config(callbackURL).AuthCodeURL(state), nil
}

// HandleCallback exchanges the OAuth code, provisions the user row on first
// login, and issues the session tokens.
func (s *AuthService) HandleCallback(ctx context.Context, provider, code string) (*LoginResponse, error) {
	githubClient, exists := s.githubClients[provider]
	if !exists {
		return nil, fmt.Errorf("provider '%s' not found", provider)
	}

	callbackURL := fmt.Sprintf("%s/api/v1/auth/%s/callback", s.config.RedirectURL, provider)
	token, err := githubClient.GetOAuth2Config(callbackURL).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	profile, err := githubClient.GetUserProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	displayName := profile.Name
	if displayName == "" {
		displayName = profile.Username
	}
	user, err := s.userRepo.GetOrCreateByEmail(profile.Email, displayName, profile.AvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	return s.issueTokens(user, profile, provider)
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(refreshToken string) (*LoginResponse, error) {
	s.tokenMutex.Lock()
	data, exists := s.refreshTokens[refreshToken]
	if exists && time.Now().After(data.ExpiresAt) {
		delete(s.refreshTokens, refreshToken)
		s.tokenMutex.Unlock()
		return nil, apperrors.ErrRefreshTokenExpired
	}
	s.tokenMutex.Unlock()

	if !exists {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByEmail(data.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	return s.issueTokens(user, &UserProfile{
		Username:  data.Username,
		Email:     data.Email,
		Name:      user.DisplayName,
		AvatarURL: user.AvatarURL,
	}, data.Provider)
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(refreshToken string) {
	s.tokenMutex.Lock()
	delete(s.refreshTokens, refreshToken)
	s.tokenMutex.Unlock()
}

// ValidateJWT parses and validates an access token
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *AuthService) issueTokens(user *models.User, profile *UserProfile, provider string) (*LoginResponse, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID:   user.ID.String(),
		Username: profile.Username,
		Email:    user.Email,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "collab-hub-backend",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.tokenMutex.Lock()
	s.refreshTokens[refreshToken] = &RefreshTokenData{
		UserID:    user.ID.String(),
		Username:  profile.Username,
		Email:     user.Email,
		Provider:  provider,
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	}
	s.tokenMutex.Unlock()

	return &LoginResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
		RefreshToken: refreshToken,
		Profile:      *profile,
	}, nil
}

func generateRefreshToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
