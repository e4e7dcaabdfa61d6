package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/service"
)

// stubAuthService resolves tokens from a fixed table.
type stubAuthService struct {
	service.AuthService
	principals map[string]auth.Principal
	failures   map[string]error
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	if err, ok := s.failures[token]; ok {
		return auth.Principal{}, err
	}
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return auth.Principal{}, apperrors.Unauthorized(apperrors.ReasonMalformed)
}

func newTestServer() *echo.Echo {
	svc := &stubAuthService{
		principals: map[string]auth.Principal{
			"admin-token": {UserID: 1, Username: "admin", Role: model.RoleAdmin},
			"duty-token":  {UserID: 2, Username: "degtyarev", Role: model.RoleDuty},
		},
		failures: map[string]error{
			"expired-token": apperrors.Unauthorized(apperrors.ReasonExpired),
			"revoked-token": apperrors.Unauthorized(apperrors.ReasonRevoked),
			"ghost-token":   apperrors.Unauthorized(apperrors.ReasonUserNotFound),
			"broken-store":  apperrors.Store("find user", errors.New("connection refused")),
		},
	}

	e := echo.New()
	g := e.Group("", Auth(svc))
	g.GET("/whoami", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.String(http.StatusOK, p.Username)
	})
	g.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAdmin)
	return e
}

func doRequest(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	e := newTestServer()

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
		expectedCode   string
	}{
		{name: "valid token", authorization: "Bearer duty-token", expectedStatus: http.StatusOK},
		{name: "missing header", authorization: "", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_MISSING"},
		{name: "wrong scheme", authorization: "Basic Zm9vOmJhcg==", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_MISSING"},
		{name: "expired", authorization: "Bearer expired-token", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_EXPIRED"},
		{name: "malformed", authorization: "Bearer garbage", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_MALFORMED"},
		{name: "revoked", authorization: "Bearer revoked-token", expectedStatus: http.StatusUnauthorized, expectedCode: "TOKEN_REVOKED"},
		{name: "deleted user", authorization: "Bearer ghost-token", expectedStatus: http.StatusUnauthorized, expectedCode: "USER_NOT_FOUND"},
		{name: "store failure", authorization: "Bearer broken-store", expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, "/whoami", tt.authorization)
			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())

			if tt.expectedCode == "" {
				assert.Equal(t, "degtyarev", rec.Body.String())
				return
			}
			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, "/admin", "Bearer admin-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, "/admin", "Bearer duty-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body.Code)
}
