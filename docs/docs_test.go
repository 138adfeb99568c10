package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	SwaggerInfo.Host = "share.example.com"
	SwaggerInfo.Schemes = []string{"https"}

	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "share.example.com", parsed["host"])

	paths, ok := parsed["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/documents", "/shares", "/shares/{token}", "/shares/{token}/verify", "/shares/{token}/meta", "/shares/{token}/file"} {
		assert.Contains(t, paths, p)
	}
}
