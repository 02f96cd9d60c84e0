package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/capstonehub/backend/internal/handlers/handlertest"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/testutil"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(e *handlertest.Env) *mux.Router {
	h := NewHandler(e.Auth, e.MFA, true)
	router := e.Router()
	router.HandleFunc("/api/auth/register/student", h.RegisterStudentHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register/client", h.RegisterClientHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.Handle("/api/auth/logout", e.Optional(h.LogoutHandler)).Methods(http.MethodPost)
	router.Handle("/api/auth/me", e.Authed(h.MeHandler)).Methods(http.MethodGet)
	router.Handle("/api/auth/password", e.Authed(h.ChangePasswordHandler)).Methods(http.MethodPut)
	router.Handle("/api/admin/mfa/setup", e.Authed(h.SetupMFAHandler, models.RoleAdmin)).Methods(http.MethodPost)
	router.Handle("/api/admin/mfa/enable", e.Authed(h.EnableMFAHandler, models.RoleAdmin)).Methods(http.MethodPost)
	router.Handle("/api/admin/mfa/disable", e.Authed(h.DisableMFAHandler, models.RoleAdmin)).Methods(http.MethodPost)
	return router
}

func TestRegisterStudentHandler(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	valid := map[string]interface{}{
		"studentNumber": "A1234567",
		"firstName":     "Alan",
		"lastName":      "Turing",
		"email":         "Alan.Turing@Uni.test",
		"password":      testutil.DefaultTestPassword,
		"skills":        []string{"go"},
	}

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: valid, wantStatus: http.StatusCreated},
		{name: "duplicate email", body: valid, wantStatus: http.StatusConflict, wantCode: httputil.CodeDuplicate},
		{
			name: "weak password",
			body: map[string]interface{}{
				"studentNumber": "B7654321", "firstName": "Weak", "lastName": "Password",
				"email": "weak@uni.test", "password": testutil.WeakTestPassword, "skills": []string{},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   httputil.CodeValidation,
		},
		{name: "unknown field", body: `{"email":"x@uni.test","admin":true}`, wantStatus: http.StatusBadRequest, wantCode: httputil.CodeValidation},
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: httputil.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := e.Do(t, router, http.MethodPost, "/api/auth/register/student", tt.body, nil)
			if tt.wantCode != "" {
				testutil.AssertErrorResponse(t, rr, tt.wantStatus, tt.wantCode)
				return
			}
			var student models.Student
			testutil.AssertDataResponse(t, rr, tt.wantStatus, &student)
			assert.Equal(t, "alan.turing@uni.test", student.Email)
			assert.NotContains(t, rr.Body.String(), "password")
		})
	}
}

func TestRegisterClientHandler_RegistrationClosed(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)
	e.Stores.Settings.Set(models.SettingRegistrationOpen, "false")

	rr := e.Do(t, router, http.MethodPost, "/api/auth/register/client", map[string]interface{}{
		"organizationName": "Globex",
		"contactName":      "Hank Scorpio",
		"email":            "hank@globex.test",
		"password":         testutil.DefaultTestPassword,
	}, nil)
	testutil.AssertErrorResponse(t, rr, http.StatusForbidden, httputil.CodeForbidden)
}

func TestLoginHandler(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	t.Run("success sets cookie and stores token", func(t *testing.T) {
		before := e.Stores.Tokens.Len()
		rr := e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    e.Student.Email,
			Password: testutil.DefaultTestPassword,
			Role:     models.RoleStudent,
		}, nil)

		var resp models.LoginResponse
		testutil.AssertDataResponse(t, rr, http.StatusOK, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, models.RoleStudent, resp.Role)
		assert.Equal(t, before+1, e.Stores.Tokens.Len())

		cookie := testutil.AssertCookieSet(t, rr, "token")
		require.NotNil(t, cookie)
		assert.Equal(t, resp.Token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, 60*60, cookie.MaxAge)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    e.Student.Email,
			Password: "WrongPassword1",
			Role:     models.RoleStudent,
		}, nil)
		testutil.AssertErrorResponse(t, rr, http.StatusUnauthorized, httputil.CodeUnauthorized)
	})

	t.Run("wrong role", func(t *testing.T) {
		rr := e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    e.Student.Email,
			Password: testutil.DefaultTestPassword,
			Role:     models.RoleClient,
		}, nil)
		testutil.AssertErrorResponse(t, rr, http.StatusUnauthorized, httputil.CodeUnauthorized)
	})

	t.Run("disabled account", func(t *testing.T) {
		client := testutil.NewClient()
		client.IsActive = false
		require.NoError(t, e.Stores.Clients.Create(context.Background(), client))

		rr := e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    client.Email,
			Password: testutil.DefaultTestPassword,
			Role:     models.RoleClient,
		}, nil)
		testutil.AssertErrorResponse(t, rr, http.StatusForbidden, httputil.CodeAccountDisabled)
	})

	t.Run("admin with mfa needs a code", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, e.Stores.Admins.SetMFASecret(ctx, e.AdminUser.ID, "JBSWY3DPEHPK3PXP"))
		require.NoError(t, e.Stores.Admins.SetMFAEnabled(ctx, e.AdminUser.ID, true))

		rr := e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    e.AdminUser.Email,
			Password: testutil.DefaultTestPassword,
			Role:     models.RoleAdmin,
		}, nil)
		testutil.AssertErrorResponse(t, rr, http.StatusUnauthorized, httputil.CodeMFARequired)

		code, err := testutil.GenerateTOTPCode("JBSWY3DPEHPK3PXP")
		require.NoError(t, err)
		rr = e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    e.AdminUser.Email,
			Password: testutil.DefaultTestPassword,
			Role:     models.RoleAdmin,
			TOTPCode: code,
		}, nil)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})
}

func TestLogoutHandler_RevokesToken(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	token := testutil.IssueToken(t, e.Stores.Tokens, e.StudentActor)
	logout := testutil.MakeRequest(t, http.MethodPost, "/api/auth/logout", nil)
	logout.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := e.Do(t, router, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "logout without a token still succeeds")

	rr = httptestServe(router, logout)
	assert.Equal(t, http.StatusOK, rr.Code)
	testutil.AssertCookieDeleted(t, rr, "token")

	me := testutil.MakeRequest(t, http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr = httptestServe(router, me)
	testutil.AssertErrorResponse(t, rr, http.StatusUnauthorized, httputil.CodeUnauthorized)

	// The revoked cookie can still be cleared.
	again := testutil.MakeRequest(t, http.MethodPost, "/api/auth/logout", nil)
	again.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr = httptestServe(router, again)
	assert.Equal(t, http.StatusOK, rr.Code)
	testutil.AssertCookieDeleted(t, rr, "token")
}

func TestMeHandler(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	rr := e.Do(t, router, http.MethodGet, "/api/auth/me", nil, e.ClientActor)
	var client models.Client
	testutil.AssertDataResponse(t, rr, http.StatusOK, &client)
	assert.Equal(t, e.Client.ID, client.ID)
	assert.Equal(t, "Acme Robotics", client.OrganizationName)

	rr = e.Do(t, router, http.MethodGet, "/api/auth/me", nil, nil)
	testutil.AssertErrorResponse(t, rr, http.StatusUnauthorized, httputil.CodeUnauthorized)
}

func TestChangePasswordHandler(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	rr := e.Do(t, router, http.MethodPut, "/api/auth/password", models.PasswordChangeRequest{
		CurrentPassword: "NotMyPassword1",
		NewPassword:     "BrandNewPass42",
	}, e.StudentActor)
	body := testutil.AssertErrorResponse(t, rr, http.StatusBadRequest, httputil.CodeValidation)
	assert.Contains(t, body.Details, "currentPassword")

	rr = e.Do(t, router, http.MethodPut, "/api/auth/password", models.PasswordChangeRequest{
		CurrentPassword: testutil.DefaultTestPassword,
		NewPassword:     "BrandNewPass42",
	}, e.StudentActor)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = e.Do(t, router, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Email:    e.Student.Email,
		Password: "BrandNewPass42",
		Role:     models.RoleStudent,
	}, nil)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestMFAHandlers(t *testing.T) {
	e := handlertest.New(t)
	router := newRouter(e)

	rr := e.Do(t, router, http.MethodPost, "/api/admin/mfa/setup", nil, e.StudentActor)
	testutil.AssertErrorResponse(t, rr, http.StatusForbidden, httputil.CodeForbidden)

	rr = e.Do(t, router, http.MethodPost, "/api/admin/mfa/setup", nil, e.Admin)
	var setup models.MFASetupResponse
	testutil.AssertDataResponse(t, rr, http.StatusOK, &setup)
	require.NotEmpty(t, setup.Secret)
	assert.NotEmpty(t, setup.QRCode)

	rr = e.Do(t, router, http.MethodPost, "/api/admin/mfa/enable", MFACodeRequest{Code: "12345"}, e.Admin)
	testutil.AssertErrorResponse(t, rr, http.StatusBadRequest, httputil.CodeValidation)

	code, err := testutil.GenerateTOTPCode(setup.Secret)
	require.NoError(t, err)
	rr = e.Do(t, router, http.MethodPost, "/api/admin/mfa/enable", MFACodeRequest{Code: code}, e.Admin)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	admin, err := e.Stores.Admins.GetByID(context.Background(), e.AdminUser.ID)
	require.NoError(t, err)
	assert.True(t, admin.MFAEnabled)

	rr = e.Do(t, router, http.MethodPost, "/api/admin/mfa/disable", MFACodeRequest{Code: code}, e.Admin)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
