package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/config"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService lets each test plug in just the calls it exercises.
type stubAuthService struct {
	register      func(ctx context.Context, req *domain.RegisterRequest) error
	login         func(ctx context.Context, email, password string) (string, *domain.PublicUser, error)
	sendVerifyOTP func(ctx context.Context, email string) error
	verifyEmail   func(ctx context.Context, email, code string) error
	sendResetOTP  func(ctx context.Context, email string) error
	resetPassword func(ctx context.Context, email, code, newPassword string) error
	validateToken func(token string) (uuid.UUID, error)
	currentUser   func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, req *domain.RegisterRequest) error {
	return s.register(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuthService) SendVerifyOTP(ctx context.Context, email string) error {
	return s.sendVerifyOTP(ctx, email)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	return s.verifyEmail(ctx, email, code)
}

func (s *stubAuthService) SendResetOTP(ctx context.Context, email string) error {
	return s.sendResetOTP(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return s.resetPassword(ctx, email, code, newPassword)
}

func (s *stubAuthService) ValidateToken(token string) (uuid.UUID, error) {
	return s.validateToken(token)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.currentUser(ctx, id)
}

// stubCVService mirrors stubAuthService for the CV routes.
type stubCVService struct {
	createOrUpdate func(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error)
	get            func(ctx context.Context, userID uuid.UUID) (*domain.CV, error)
	addItem        func(ctx context.Context, userID uuid.UUID, section string, item json.RawMessage) (*domain.CV, error)
	updateItem     func(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID, patch json.RawMessage) (*domain.CV, error)
	removeItem     func(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID) (*domain.CV, error)
	updateInfo     func(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error)
	delete         func(ctx context.Context, userID uuid.UUID) error
	export         func(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

func (s *stubCVService) CreateOrUpdate(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error) {
	return s.createOrUpdate(ctx, userID, req)
}

func (s *stubCVService) Get(ctx context.Context, userID uuid.UUID) (*domain.CV, error) {
	return s.get(ctx, userID)
}

func (s *stubCVService) AddItem(ctx context.Context, userID uuid.UUID, section string, item json.RawMessage) (*domain.CV, error) {
	return s.addItem(ctx, userID, section, item)
}

func (s *stubCVService) UpdateItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID, patch json.RawMessage) (*domain.CV, error) {
	return s.updateItem(ctx, userID, section, itemID, patch)
}

func (s *stubCVService) RemoveItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID) (*domain.CV, error) {
	return s.removeItem(ctx, userID, section, itemID)
}

func (s *stubCVService) UpdateInfo(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error) {
	return s.updateInfo(ctx, userID, req)
}

func (s *stubCVService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.delete(ctx, userID)
}

func (s *stubCVService) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.export(ctx, userID)
}

func testCfg() *config.Config {
	return &config.Config{Environment: "test", JWTSecret: "test-secret"}
}

// asUser injects the authenticated account id the way the auth middleware does.
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newAuthedRequest(method, path, bearer string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}
