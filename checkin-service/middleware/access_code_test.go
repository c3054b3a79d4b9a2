package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	utils "rollcall-backend/shared/utils/auth"
)

func editorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/email-conversation", AccessCodeMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestAccessCodeMiddlewareMissingCookie(t *testing.T) {
	router := editorRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/email-conversation", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", w.Code)
	}
}

func TestAccessCodeMiddlewareInvalidCookie(t *testing.T) {
	router := editorRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/email-conversation", nil)
	req.AddCookie(&http.Cookie{Name: utils.AccessCodeCookieName, Value: "forged"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged cookie, got %d", w.Code)
	}
}

func TestAccessCodeMiddlewareValidCookie(t *testing.T) {
	router := editorRouter()

	token, err := utils.GenerateAccessToken()
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/email-conversation", nil)
	req.AddCookie(&http.Cookie{Name: utils.AccessCodeCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid cookie, got %d", w.Code)
	}
}
