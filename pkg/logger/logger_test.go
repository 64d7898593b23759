package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verboso"))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "bodega-api", Out: &buf})

	l.Debug().Msg("descartado")
	assert.Zero(t, buf.Len())

	log := l.Component("inventory")
	log.Info().Str("cell_id", "c-1").Msg("celda creada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "bodega-api", line["service"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, "c-1", line["cell_id"])
	assert.Equal(t, "celda creada", line["message"])
}
