package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/domain"
)

func TestJWTVerifier_EmiteYVerifica(t *testing.T) {
	v := auth.NewJWTVerifier(auth.JWTConfig{Secret: "s3cret", ExpMinutes: 10, Issuer: "bodega-api"})

	token, err := v.Issue("uid-1", "ana@bodega.test")
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UserID)
	assert.Equal(t, "ana@bodega.test", id.Email)
}

func TestJWTVerifier_TokenInvalidoEsUnauthorized(t *testing.T) {
	v := auth.NewJWTVerifier(auth.JWTConfig{Secret: "s3cret", ExpMinutes: 10})
	other := auth.NewJWTVerifier(auth.JWTConfig{Secret: "otro", ExpMinutes: 10})
	foreign, err := other.Issue("uid-1", "")
	require.NoError(t, err)

	for _, token := range []string{"", "   ", "abc.def.ghi", foreign} {
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}
