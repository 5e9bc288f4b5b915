package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyhq/cardify-backend/internal/pkg/auth"
)

func authedRouter(tokens *auth.Manager) http.Handler {
	var captured string
	mux := http.NewServeMux()
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
		w.Write([]byte(captured))
	})
	return Auth(tokens)(mux)
}

func TestAuthValidToken(t *testing.T) {
	tokens := auth.NewManager("test-secret-key-0123456789", time.Hour)
	token, err := tokens.IssueToken("user-42", "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authedRouter(tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret-key-0123456789", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	authedRouter(tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret-key-0123456789", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	authedRouter(tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsForgedToken(t *testing.T) {
	tokens := auth.NewManager("test-secret-key-0123456789", time.Hour)
	forger := auth.NewManager("another-secret-key-altogether", time.Hour)
	token, err := forger.IssueToken("user-42", "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authedRouter(tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
