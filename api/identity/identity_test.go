package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenizer struct {
	claims map[string]interface{}
	err    error
}

func (s *stubTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "token", nil
}

func (s *stubTokenizer) Decode(string) (map[string]interface{}, error) {
	return s.claims, s.err
}

type stubAuthenticator struct {
	registerErr error
	signInErr   error
	user        *dmn.User
}

func (s *stubAuthenticator) Register(string, string) error {
	return s.registerErr
}

func (s *stubAuthenticator) SignIn(string, string) (*dmn.User, string, error) {
	if s.signInErr != nil {
		return nil, "", s.signInErr
	}
	return s.user, "signed-token", nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedEngine(ts *stubTokenizer) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authorize(ts), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestAuthorize(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		ts     *stubTokenizer
		status int
	}{
		{"missing header", "", &stubTokenizer{}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", &stubTokenizer{}, http.StatusUnauthorized},
		{"bad token", "Bearer abc", &stubTokenizer{err: errors.New("bad")}, http.StatusUnauthorized},
		{"no user id", "Bearer abc", &stubTokenizer{claims: map[string]interface{}{"username": "x"}}, http.StatusUnauthorized},
		{"malformed user id", "Bearer abc", &stubTokenizer{claims: map[string]interface{}{"userID": "nope"}}, http.StatusUnauthorized},
		{"valid", "Bearer abc", &stubTokenizer{claims: map[string]interface{}{"userID": userID.String()}}, http.StatusOK},
		{"lowercase scheme", "bearer abc", &stubTokenizer{claims: map[string]interface{}{"userID": userID.String()}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protectedEngine(tt.ts).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func serveAuth(t *testing.T, a *stubAuthenticator, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	NewIdentityServer(a).RegisterPublic(r.Group("/v1"))

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1"+path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	creds := AuthRequest{Username: "runner", Password: "violet-Lantern-orbit-93!"}

	t.Run("created", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{}, "/auth/register", creds)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{}, "/auth/register", map[string]string{"username": "runner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{registerErr: dmn.ErrWeakPassword}, "/auth/register", creds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dmn.ErrWeakPassword.Error())
	})

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"taken", service.ErrUsernameTaken, http.StatusConflict, service.ErrUsernameTaken.Error()},
		{"concurrent duplicate", dmn.ErrUsernameConflict, http.StatusConflict, service.ErrUsernameTaken.Error()},
		{"short username", dmn.ErrUsernameTooShort, http.StatusBadRequest, dmn.ErrUsernameTooShort.Error()},
		{"long username", dmn.ErrUsernameTooLong, http.StatusBadRequest, dmn.ErrUsernameTooLong.Error()},
		{"bad username", dmn.ErrUsernameFormat, http.StatusBadRequest, dmn.ErrUsernameFormat.Error()},
		{"store down", errors.New("unexpected error: server selection timeout on mongo:27017"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAuth(t, &stubAuthenticator{registerErr: tt.err}, "/auth/register", creds)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body["error"])
		})
	}
}

func TestLogin(t *testing.T) {
	creds := AuthRequest{Username: "runner", Password: "violet-Lantern-orbit-93!"}
	user := &dmn.User{ID: uuid.New(), Username: "runner", RoundsCompleted: 3}

	t.Run("ok", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{user: user}, "/auth/login", creds)
		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, "runner", resp.Username)
		assert.Equal(t, 3, resp.RoundsCompleted)
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{signInErr: service.ErrInvalidCredentials}, "/auth/login", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signing failure", func(t *testing.T) {
		w := serveAuth(t, &stubAuthenticator{signInErr: errors.New("signing key missing")}, "/auth/login", creds)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "signing key")
	})
}
