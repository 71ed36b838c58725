package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dias221467/Social_Circle/internal/config"
	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/Dias221467/Social_Circle/pkg/logger"
	"github.com/stretchr/testify/assert"
)

// Validation failures must surface as client errors, not 500s. The service
// rejects these payloads before touching the repository, so a nil repo is
// fine here.
func TestRegisterUserHandlerMissingFields(t *testing.T) {
	logger.InitLogger()

	handler := NewUserHandler(services.NewUserService(nil), &config.Config{})

	body := `{"username": "alice", "email": "alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterUserHandlerMalformedEmail(t *testing.T) {
	logger.InitLogger()

	handler := NewUserHandler(services.NewUserService(nil), &config.Config{})

	body := `{"username": "alice", "email": "not-an-email", "password": "secret"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterUserHandlerMalformedJSON(t *testing.T) {
	logger.InitLogger()

	handler := NewUserHandler(services.NewUserService(nil), &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
