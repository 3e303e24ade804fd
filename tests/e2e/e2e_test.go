package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/app"
	"github.com/MHYAnate/rootafapi/internal/config"
	"github.com/MHYAnate/rootafapi/internal/database"
	"github.com/MHYAnate/rootafapi/internal/domain"
)

type suite struct {
	router *gin.Engine
	db     *gorm.DB
}

type apiResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *apiError      `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func newSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppEnv:           "test",
		Port:             "0",
		DatabaseURL:      ":memory:",
		JWTSecret:        "e2e-access-secret",
		JWTRefreshSecret: "e2e-refresh-secret",
		AdminJWTSecret:   "e2e-admin-secret",
		AccessTTL:        time.Hour,
		RefreshTTL:       24 * time.Hour,
		AdminTTL:         8 * time.Hour,
		BcryptCost:       bcrypt.MinCost,
		UploadDir:        t.TempDir(),
		UploadBaseURL:    "/static/uploads",
	}

	router, err := app.Build(db, cfg)
	require.NoError(t, err)

	return &suite{router: router, db: db}
}

func (s *suite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func (s *suite) seedSuperAdmin(t *testing.T, username, password string) *domain.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &domain.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Bootstrap Admin",
		Role:         domain.RoleSuperAdmin,
		Capabilities: domain.DefaultCapabilities(domain.RoleSuperAdmin),
		IsActive:     true,
	}
	require.NoError(t, s.db.Create(admin).Error)
	return admin
}

func (s *suite) adminLogin(t *testing.T, username, password string) string {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *suite) registerMember(t *testing.T, phone string) float64 {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register/member", "", gin.H{
		"phone_number":          phone,
		"full_name":             "Ade Farmer",
		"password":              "member-pass-1",
		"provider_type":         "FARMER",
		"local_government_area": "Ikeja",
		"state":                 "Lagos",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user, _ := resp.Data["user"].(map[string]any)
	require.Equal(t, "PENDING", user["verification_status"])
	id, _ := user["id"].(float64)
	require.NotZero(t, id)
	return id
}

func (s *suite) userLogin(t *testing.T, phone, password string) (string, string) {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"phone_number": phone,
		"password":     password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	access, _ := resp.Data["access_token"].(string)
	refresh, _ := resp.Data["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func TestVerificationLifecycle(t *testing.T) {
	s := newSuite(t)
	s.seedSuperAdmin(t, "root", "root-password")
	adminToken := s.adminLogin(t, "root", "root-password")

	memberID := s.registerMember(t, "08012345678")
	memberToken, _ := s.userLogin(t, "08012345678", "member-pass-1")

	// unverified members are blocked from the verified surface
	w, resp := s.request(t, http.MethodPost, "/api/v1/products", memberToken, gin.H{
		"name": "Yam", "price": 1000,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "NOT_VERIFIED", resp.Error.Code)

	// review starts
	w, _ = s.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/verification/users/%d/start-review", int64(memberID)), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user domain.User
	require.NoError(t, s.db.First(&user, int64(memberID)).Error)
	assert.Equal(t, domain.VerificationUnderReview, user.VerificationStatus)
	assert.NotNil(t, user.VerificationStartedAt)

	// starting twice conflicts
	w, resp = s.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/verification/users/%d/start-review", int64(memberID)), adminToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	// approval
	w, _ = s.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/verification/users/%d/approve", int64(memberID)), adminToken, gin.H{"notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, s.db.First(&user, int64(memberID)).Error)
	assert.Equal(t, domain.VerificationVerified, user.VerificationStatus)

	var notifs int64
	require.NoError(t, s.db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", int64(memberID), domain.NotifVerificationApproved).
		Count(&notifs).Error)
	assert.EqualValues(t, 1, notifs)

	var audits int64
	require.NoError(t, s.db.Model(&domain.AdminActivityLog{}).
		Where("action_type = ?", domain.ActionMemberVerificationApproved).
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)

	// verified member can now create listings
	w, _ = s.request(t, http.MethodPost, "/api/v1/products", memberToken, gin.H{
		"name": "Yam", "price": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// the member sees the approval notification
	w, resp = s.request(t, http.MethodGet, "/api/v1/notifications/unread-count", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	count, _ := resp.Data["count"].(float64)
	assert.EqualValues(t, 1, count)
}

func TestRatingFlow(t *testing.T) {
	s := newSuite(t)
	s.seedSuperAdmin(t, "root", "root-password")
	adminToken := s.adminLogin(t, "root", "root-password")

	memberID := s.registerMember(t, "08012345678")

	// register and approve a client
	w, _ := s.request(t, http.MethodPost, "/api/v1/auth/register/client", "", gin.H{
		"phone_number":          "08087654321",
		"full_name":             "Bisi Client",
		"password":              "client-pass-1",
		"local_government_area": "Ikeja",
		"state":                 "Lagos",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var client domain.User
	require.NoError(t, s.db.Where("phone_number = ?", "08087654321").First(&client).Error)

	for _, id := range []int64{int64(memberID), client.ID} {
		w, _ = s.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/admin/verification/users/%d/approve", id), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	clientToken, _ := s.userLogin(t, "08087654321", "client-pass-1")

	rate := gin.H{
		"member_id":       int64(memberID),
		"rating_category": "GENERAL",
		"overall_rating":  5,
	}
	w, _ = s.request(t, http.MethodPost, "/api/v1/ratings", clientToken, rate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// duplicate target conflicts
	w, resp := s.request(t, http.MethodPost, "/api/v1/ratings", clientToken, rate)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_RATING", resp.Error.Code)

	// public aggregate reflects the single active rating
	w, resp = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/members/%d/ratings", int64(memberID)), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary, _ := resp.Data["summary"].(map[string]any)
	assert.EqualValues(t, 5, summary["average_rating"])
	assert.EqualValues(t, 1, summary["total_ratings"])
}

func TestUserLockout(t *testing.T) {
	s := newSuite(t)
	s.registerMember(t, "08012345678")

	for i := 0; i < 4; i++ {
		w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"phone_number": "08012345678",
			"password":     "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	}

	// fifth failure locks the account
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"phone_number": "08012345678",
		"password":     "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", resp.Error.Code)

	// the right password is refused during the window
	w, resp = s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"phone_number": "08012345678",
		"password":     "member-pass-1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", resp.Error.Code)
}

func TestAdminSessionRevocation(t *testing.T) {
	s := newSuite(t)
	super := s.seedSuperAdmin(t, "root", "root-password")
	adminToken := s.adminLogin(t, "root", "root-password")

	// self-deactivation is refused
	w, resp := s.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/admins/%d/toggle-status", super.ID), adminToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "SELF_ACTION", resp.Error.Code)

	// logout revokes the session even though the token is unexpired
	w, _ = s.request(t, http.MethodPost, "/api/v1/admin/logout", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = s.request(t, http.MethodGet, "/api/v1/admin/me", adminToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_REVOKED", resp.Error.Code)
}
