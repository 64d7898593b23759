// Package auth adapta los tokens HS256 emitidos por un IdP externo al puerto TokenVerifier.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/pkg/jwt"
)

var _ ports.TokenVerifier = (*JWTVerifier)(nil)

// JWTConfig configuración para validar tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// JWTVerifier valida tokens firmados con el secreto compartido.
type JWTVerifier struct {
	cfg JWTConfig
}

// NewJWTVerifier construye el verificador.
func NewJWTVerifier(cfg JWTConfig) *JWTVerifier {
	return &JWTVerifier{cfg: cfg}
}

// Verify devuelve la identidad del token o ErrUnauthorized.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*ports.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	uid, email, err := jwt.Parse(v.cfg.Secret, v.cfg.Issuer, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return &ports.Identity{UserID: uid, Email: email}, nil
}

// Issue emite un token para uid/email; lo usan las pruebas y el entorno de desarrollo.
func (v *JWTVerifier) Issue(uid, email string) (string, error) {
	return jwt.Generate(v.cfg.Secret, uid, email, v.cfg.Issuer, v.cfg.ExpMinutes)
}
