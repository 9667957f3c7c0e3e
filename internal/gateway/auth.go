// internal/gateway/auth.go
package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/lingualearn/lingualearn/internal/domain/models"
	"golang.org/x/oauth2"
)

// Session is an authenticated identity session: the tokens the app
// stores in the cookie session plus the resolved user.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         models.User
}

// authUser is the identity API's wire shape for a user. Display fields
// live under user_metadata.
type authUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (u authUser) toModel() models.User {
	return models.User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.UserMetadata.FullName,
		AvatarURL: u.UserMetadata.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// authSession is the identity API's wire shape for a token grant.
type authSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         authUser `json:"user"`
}

func (s authSession) toSession() *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         s.User.toModel(),
	}
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	in := map[string]string{"email": email, "password": password}
	var out authSession
	err := c.do(ctx, "POST", c.baseURL+"/auth/v1/token?grant_type=password", "", nil, in, &out)
	if err != nil {
		return nil, err
	}
	return out.toSession(), nil
}

// SignUp registers a new account. fullName is stored in the identity
// metadata so it survives independently of the profile row.
//
// When the project requires email confirmation the returned session has
// an empty access token; the caller treats that as "account created,
// confirm then sign in".
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	in := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}
	var out authSession
	err := c.do(ctx, "POST", c.baseURL+"/auth/v1/signup", "", nil, in, &out)
	if err != nil {
		return nil, err
	}
	return out.toSession(), nil
}

// SignOut revokes the access token server-side.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, "POST", c.baseURL+"/auth/v1/logout", accessToken, nil, nil, nil)
}

// GetUser resolves the user the access token belongs to. An expired or
// revoked token comes back as an unauthorized APIError.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	var out authUser
	if err := c.do(ctx, "GET", c.baseURL+"/auth/v1/user", accessToken, nil, nil, &out); err != nil {
		return nil, err
	}
	u := out.toModel()
	return &u, nil
}

// UpdateUserMetadata merges the given fields into the identity metadata
// and returns the updated user.
func (c *Client) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*models.User, error) {
	in := map[string]any{"data": metadata}
	var out authUser
	if err := c.do(ctx, "PUT", c.baseURL+"/auth/v1/user", accessToken, nil, in, &out); err != nil {
		return nil, err
	}
	u := out.toModel()
	return &u, nil
}

// RefreshSession trades a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	in := map[string]string{"refresh_token": refreshToken}
	var out authSession
	err := c.do(ctx, "POST", c.baseURL+"/auth/v1/token?grant_type=refresh_token", "", nil, in, &out)
	if err != nil {
		return nil, err
	}
	return out.toSession(), nil
}

// RequestPasswordReset asks the identity service to email a recovery
// link. redirectTo is where the link lands after the reset.
func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	endpoint := c.baseURL + "/auth/v1/recover"
	if redirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	in := map[string]string{"email": email}
	return c.do(ctx, "POST", endpoint, "", nil, in, nil)
}

// OAuthConfig builds the oauth2 config for the identity service's
// provider-brokered flow. The service fronts the upstream provider, so
// both endpoints point at it; which provider to use travels as an extra
// authorize parameter (see ProviderOption).
func (c *Client) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.anonKey,
		RedirectURL: redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.baseURL + "/auth/v1/authorize",
			TokenURL:  c.baseURL + "/auth/v1/token?grant_type=pkce",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// ProviderOption selects the upstream provider (google, github) on the
// authorize redirect.
func ProviderOption(provider string) oauth2.AuthCodeOption {
	return oauth2.SetAuthURLParam("provider", provider)
}

// SessionFromToken turns an oauth2 token exchange result into a Session
// by resolving the user behind the access token.
func (c *Client) SessionFromToken(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	user, err := c.GetUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		User:         *user,
	}, nil
}
