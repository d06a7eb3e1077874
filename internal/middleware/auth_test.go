package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/well-broomed/cleaning-api/internal/constants"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakeVerifier struct {
	info *services.TokenInfo
	err  error
}

func (v *fakeVerifier) VerifyToken(_ context.Context, _ string) (*services.TokenInfo, error) {
	return v.info, v.err
}

func authRouter(verifier services.IdentityVerifier) *gin.Engine {
	router := gin.New()
	router.GET("/probe", RequireAuth(verifier), func(c *gin.Context) {
		info := GetTokenInfo(c)
		c.JSON(http.StatusOK, gin.H{"email": info.Email})
	})
	return router
}

func TestRequireAuth_ValidBearer(t *testing.T) {
	verifier := &fakeVerifier{info: &services.TokenInfo{Subject: "abc", Email: "manager@example.com"}}
	router := authRouter(verifier)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "manager@example.com")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := authRouter(&fakeVerifier{info: &services.TokenInfo{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router := authRouter(&fakeVerifier{info: &services.TokenInfo{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	router := authRouter(&fakeVerifier{err: errors.New("token expired")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireManager_RejectsAssistant(t *testing.T) {
	router := gin.New()
	router.POST("/probe", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, uint64(1))
		c.Set(constants.ContextKeyUserRole, models.RoleAssistant)
	}, RequireManager(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireManager_AllowsManager(t *testing.T) {
	router := gin.New()
	router.POST("/probe", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, uint64(1))
		c.Set(constants.ContextKeyUserRole, models.RoleManager)
	}, RequireManager(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
