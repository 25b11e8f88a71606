package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ausverity/ausverity-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: rating out of range", services.ErrValidation), http.StatusUnprocessableEntity},
		{"invalid password", services.ErrInvalidPassword, http.StatusUnprocessableEntity},
		{"unauthorized", services.ErrUnauthorized, http.StatusForbidden},
		{"invalid state", fmt.Errorf("%w: already approved", services.ErrInvalidState), http.StatusConflict},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"expired", services.ErrExpired, http.StatusGone},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("pq: connection refused on 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestParseUint(t *testing.T) {
	v, err := parseUint("42")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), v)

	_, err = parseUint("abc")
	assert.Error(t, err)

	_, err = parseUint("-1")
	assert.Error(t, err)
}
