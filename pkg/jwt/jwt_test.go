package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_DevuelveIdentidad(t *testing.T) {
	token, err := Generate(secret, "uid-1", "ana@bodega.test", "bodega-api", 5)
	require.NoError(t, err)

	uid, email, err := Parse(secret, "bodega-api", token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	assert.Equal(t, "ana@bodega.test", email)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := Generate(secret, "uid-1", "ana@bodega.test", "bodega-api", 5)
	require.NoError(t, err)
	expired, err := Generate(secret, "uid-1", "ana@bodega.test", "bodega-api", -1)
	require.NoError(t, err)

	tests := []struct {
		name, secret, issuer, token string
	}{
		{"secreto distinto", "otro", "bodega-api", valid},
		{"emisor distinto", secret, "otro-emisor", valid},
		{"expirado", secret, "bodega-api", expired},
		{"basura", secret, "", "no-es-un-jwt"},
		{"secreto vacío", "", "", valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := Generate("", "uid-1", "", "", 5)
	assert.Error(t, err)
}
