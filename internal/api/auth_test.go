package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"crowdfunding/internal/domain"
	"crowdfunding/internal/store"
	"crowdfunding/internal/testutil"
	"crowdfunding/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/users", "", gin.H{
		"username": "alice", "email": " Alice@X.com ", "phone": "01123456789", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "User registered successfully")
	assert.NotContains(t, rec.Body.String(), "s3cret-pass")

	stored, err := s.store.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice@x.com", stored.Email) // Domain part is lowercased
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.False(t, stored.IsStaff)
}

func TestRegister_Rejections(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice", "a@x.com", "01123456789")

	tests := []struct {
		name string
		body gin.H
		code int
		want string
	}{
		{"duplicate username", gin.H{"username": "alice", "email": "b@x.com", "phone": "01000000001", "password": "s3cret-pass"}, http.StatusConflict, "username"},
		{"duplicate email", gin.H{"username": "bob", "email": "a@x.com", "phone": "01000000001", "password": "s3cret-pass"}, http.StatusConflict, "email"},
		{"duplicate phone", gin.H{"username": "bob", "email": "b@x.com", "phone": "01123456789", "password": "s3cret-pass"}, http.StatusConflict, "phone"},
		{"bad phone", gin.H{"username": "bob", "email": "b@x.com", "phone": "0212345678", "password": "s3cret-pass"}, http.StatusBadRequest, "phone"},
		{"bad email", gin.H{"username": "bob", "email": "not-an-email", "phone": "01000000001", "password": "s3cret-pass"}, http.StatusBadRequest, "email"},
		{"short password", gin.H{"username": "bob", "email": "b@x.com", "phone": "01000000001", "password": "short"}, http.StatusBadRequest, "password"},
		{"missing username", gin.H{"email": "b@x.com", "phone": "01000000001", "password": "s3cret-pass"}, http.StatusBadRequest, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/users", "", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice", "a@x.com", "01123456789")

	rec := s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "nobody", "password": "s3cret-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshAndVerify(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice", "a@x.com", "01123456789")
	rec := s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "alice", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	auth := decode[AuthResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/auth/jwt/refresh", "", gin.H{"refresh": auth.Refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decode[map[string]string](t, rec)
	require.NotEmpty(t, refreshed["access"])

	// The refreshed access token authenticates requests
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/auth/users/me", refreshed["access"], nil).Code)

	// An access token is not a refresh token
	rec = s.do(t, http.MethodPost, "/auth/jwt/refresh", "", gin.H{"refresh": auth.Access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A refresh token is not an access token
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/auth/users/me", auth.Refresh, nil).Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/auth/jwt/verify", "", gin.H{"token": auth.Access}).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/auth/jwt/verify", "", gin.H{"token": auth.Refresh}).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/auth/jwt/verify", "", gin.H{"token": "garbage"}).Code)
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/campaigns", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signup(t, "alice", "a@x.com", "01123456789")
	_, bob := s.signup(t, "bob", "b@x.com", "01000000001")
	active := s.createCampaign(t, alice, campaignBody(500))
	owner, err := s.store.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	ended := &domain.Campaign{
		OwnerID:      owner.ID,
		Title:        "Finished",
		Description:  "Ended yesterday",
		TargetAmount: mustDecimal(t, "100"),
		StartDate:    domain.Day(fixedNow).AddDate(0, 0, -10),
		EndDate:      domain.Day(fixedNow).AddDate(0, 0, -1),
	}
	require.NoError(t, s.store.CreateCampaign(context.Background(), ended))
	s.donate(t, alice, active.ID, "12.50")
	s.donate(t, alice, active.ID, "7.25")
	s.donate(t, bob, active.ID, "100")

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/auth/users/me", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/auth/users/me", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[MeResponse](t, rec)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "19.75", me.TotalDonationsMade)
	require.Len(t, me.ActiveCampaigns, 1)
	assert.Equal(t, active.ID, me.ActiveCampaigns[0].ID)
	assert.Equal(t, "119.75", me.ActiveCampaigns[0].TotalDonations)

	rec = s.do(t, http.MethodGet, "/auth/users/me", bob, nil)
	me = decode[MeResponse](t, rec)
	assert.Equal(t, "100.00", me.TotalDonationsMade)
	assert.Empty(t, me.ActiveCampaigns)
}

func TestAdminUsers_StaffOnly(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signup(t, "alice", "a@x.com", "01123456789")
	campaign := s.createCampaign(t, alice, campaignBody(500))
	s.donate(t, alice, campaign.ID, "40")

	hash, err := utils.HashPassword("staff-pass")
	require.NoError(t, err)
	require.NoError(t, s.store.CreateUser(context.Background(), &domain.User{
		Username: "root", Email: "root@x.com", Phone: "01099999999", Password: hash, IsStaff: true,
	}))
	rec := s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "root", "password": "staff-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	staff := decode[AuthResponse](t, rec).Access

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/admin/users", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/admin/users", alice, nil).Code)

	rec = s.do(t, http.MethodGet, "/admin/users?page_size=1", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[struct {
		Users      []UserAdminResponse `json:"users"`
		Total      int64               `json:"total"`
		TotalPages int                 `json:"total_pages"`
	}](t, rec)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "alice", page.Users[0].Username)
	assert.Equal(t, "40.00", page.Users[0].TotalDonationsMade)

	// Staff get no extra rights over campaigns
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/campaigns/"+itoa(campaign.ID), staff, nil).Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRateLimit_InProcess(t *testing.T) {
	r := NewRouter(Deps{
		Store:          store.New(testutil.NewDB(t)),
		Tokens:         TokenIssuer{Secret: "api-test-secret", AccessTTL: time.Hour, RefreshTTL: time.Hour},
		AuthRateLimit:  2,
		AuthRateWindow: time.Hour,
	})
	s := &testServer{router: r}

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "nobody", "password": "whatever"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/auth/jwt/create", "", gin.H{"username": "nobody", "password": "whatever"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Token verification is not limited
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/auth/jwt/verify", "", gin.H{"token": "x"}).Code)
}
