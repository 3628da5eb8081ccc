package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), mw)
	router.POST("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAPIKeyAuth(t *testing.T) {
	validKeys := map[string]bool{"valid-key": true}

	tests := []struct {
		name           string
		keys           map[string]bool
		header         string
		query          string
		expectedStatus int
	}{
		{
			name:           "disabled when no keys configured",
			keys:           nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing key rejected",
			keys:           validKeys,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid key rejected",
			keys:           validKeys,
			header:         "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid header key accepted",
			keys:           validKeys,
			header:         "valid-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid query key accepted",
			keys:           validKeys,
			query:          "valid-key",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(APIKeyAuth(tt.keys))

			url := "/admin"
			if tt.query != "" {
				url += "?api_key=" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, url, nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminAuth_OpenWhenDisabled(t *testing.T) {
	// Disabled is the master switch: even configured credentials are not
	// demanded.
	routers := []*gin.Engine{
		setupAuthRouter(AdminAuth(false, nil, "")),
		setupAuthRouter(AdminAuth(false, map[string]bool{"k1": true}, "some-secret")),
	}

	for _, router := range routers {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAdminAuth_EnabledWithoutCredentialsRejects(t *testing.T) {
	router := setupAuthRouter(AdminAuth(true, nil, ""))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_APIKeyPath(t *testing.T) {
	router := setupAuthRouter(AdminAuth(true, map[string]bool{"k1": true}, ""))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(APIKeyHeader, "k1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
