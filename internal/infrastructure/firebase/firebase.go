// Package firebase adapta Firebase Auth a los puertos de identidad.
package firebase

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/pkg/config"
)

var (
	_ ports.TokenVerifier     = (*Client)(nil)
	_ ports.CredentialDeleter = (*Client)(nil)
)

// authClient subconjunto de *auth.Client que usa el adaptador.
type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Client verifica ID tokens y borra credenciales en Firebase Auth.
type Client struct {
	auth       authClient
	isNotFound func(error) bool
}

// NewAuthClient inicializa el Admin SDK con el archivo de credenciales.
func NewAuthClient(ctx context.Context, cfg config.FirebaseConfig) (*auth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH es obligatorio con AUTH_PROVIDER=firebase")
	}
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("inicializar firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("cliente de auth firebase: %w", err)
	}
	return client, nil
}

// New construye el adaptador sobre un cliente de Firebase Auth.
func New(client *auth.Client) *Client {
	return newClient(client, auth.IsUserNotFound)
}

func newClient(c authClient, isNotFound func(error) bool) *Client {
	return &Client{auth: c, isNotFound: isNotFound}
}

// Verify valida el ID token y devuelve uid y email.
func (c *Client) Verify(ctx context.Context, token string) (*ports.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	t, err := c.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	email, _ := t.Claims["email"].(string)
	return &ports.Identity{UserID: t.UID, Email: email}, nil
}

// DeleteCredential borra el usuario en Firebase; si ya no existe no es error.
func (c *Client) DeleteCredential(ctx context.Context, userID string) error {
	if err := c.auth.DeleteUser(ctx, userID); err != nil {
		if c.isNotFound(err) {
			return nil
		}
		return fmt.Errorf("firebase delete user %s: %w", userID, err)
	}
	return nil
}
