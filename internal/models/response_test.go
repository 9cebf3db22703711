package models

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessResponseShape(t *testing.T) {
	resp := SuccessResponse(map[string]string{"message": "pong"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, true, decoded["success"])
	assert.NotEmpty(t, decoded["timestamp"])
	assert.NotContains(t, decoded, "error")
}

func TestErrorResponseShape(t *testing.T) {
	resp := ErrorResponse("Données invalides", http.StatusBadRequest, map[string]string{"field": "user_id"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Success bool `json:"success"`
		Error   struct {
			Message string         `json:"message"`
			Code    int            `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	assert.Equal(t, "Données invalides", decoded.Error.Message)
	assert.Equal(t, http.StatusBadRequest, decoded.Error.Code)
	assert.Equal(t, "user_id", decoded.Error.Details["field"])
	assert.NotEmpty(t, decoded.Timestamp)
}

func TestErrorResponseOmitsEmptyDetails(t *testing.T) {
	resp := ErrorResponse("Ressource introuvable", http.StatusNotFound, nil)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "details")
	assert.NotContains(t, string(data), `"data"`)
}
