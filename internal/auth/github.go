package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// GitHubClient wraps the GitHub API client with authentication support
type GitHubClient struct {
	config *ProviderConfig
}

// UserProfile represents a GitHub user profile
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// NewGitHubClient creates a new GitHub API client
func NewGitHubClient(config *ProviderConfig) *GitHubClient {
	return &GitHubClient{config: config}
}

// GetOAuth2Config builds the OAuth2 config for this provider
func (c *GitHubClient) GetOAuth2Config(callbackURL string) *oauth2.Config {
	cfg := &oauth2.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"user:email", "read:user"},
		Endpoint:     oauthgithub.Endpoint,
	}
	if c.config.EnterpriseBaseURL != "" {
		cfg.Endpoint = oauth2.Endpoint{
			AuthURL:  c.config.EnterpriseBaseURL + "/login/oauth/authorize",
			TokenURL: c.config.EnterpriseBaseURL + "/login/oauth/access_token",
		}
	}
	return cfg
}

// GetUserProfile fetches user profile information from GitHub API
func (c *GitHubClient) GetUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	var client *github.Client
	if c.config.EnterpriseBaseURL != "" {
		client, _ = github.NewEnterpriseClient(c.config.EnterpriseBaseURL, c.config.EnterpriseBaseURL, tc)
	} else {
		client = github.NewClient(tc)
	}

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("invalid access token")
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	// Find the primary verified email; the profile email can be unset
	primaryEmail := user.GetEmail()
	emails, _, err := client.Users.ListEmails(ctx, nil)
	if err == nil {
		for _, email := range emails {
			if email.GetPrimary() && email.GetVerified() {
				primaryEmail = email.GetEmail()
				break
			}
		}
	}

	if primaryEmail == "" {
		return nil, fmt.Errorf("no verified email on GitHub account")
	}

	return &UserProfile{
		ID:        user.GetID(),
		Username:  user.GetLogin(),
		Email:     primaryEmail,
		Name:      user.GetName(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}
