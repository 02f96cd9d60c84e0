package services

import (
	"context"
	"testing"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/testutil"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentRegistration() *models.StudentRegistration {
	return &models.StudentRegistration{
		StudentNumber: "A1234567",
		FirstName:     "Alan",
		LastName:      "Turing",
		Email:         "Alan.Turing@Uni.Test",
		Password:      testutil.DefaultTestPassword,
		Skills:        []string{"math"},
	}
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

// wrongCode returns a six digit code outside the accepted skew window.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()
	valid := map[string]bool{}
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, err := totp.GenerateCodeCustom(secret, time.Now().UTC().Add(offset), totp.ValidateOpts{
			Period:    30,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)
		valid[code] = true
	}
	for _, candidate := range []string{"000000", "111111", "222222", "333333"} {
		if !valid[candidate] {
			return candidate
		}
	}
	t.Fatal("no invalid code available")
	return ""
}

func TestRegisterStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active account with normalized email", func(t *testing.T) {
		h := newHarness(t)
		student, err := h.auth.RegisterStudent(ctx, studentRegistration())
		require.NoError(t, err)
		assert.Equal(t, "alan.turing@uni.test", student.Email)
		assert.True(t, student.IsActive)
		assert.NotEqual(t, testutil.DefaultTestPassword, student.PasswordHash)
		assert.Contains(t, h.stores.Analytics.EventTypes(), models.EventRegistration)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.auth.RegisterStudent(ctx, studentRegistration())
		require.NoError(t, err)
		reg := studentRegistration()
		reg.StudentNumber = "B7654321"
		_, err = h.auth.RegisterStudent(ctx, reg)
		assert.ErrorIs(t, err, models.ErrDuplicate)
	})

	t.Run("weak password", func(t *testing.T) {
		h := newHarness(t)
		reg := studentRegistration()
		reg.Password = testutil.WeakTestPassword
		_, err := h.auth.RegisterStudent(ctx, reg)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("registration closed", func(t *testing.T) {
		h := newHarness(t)
		h.stores.Settings.Set(models.SettingRegistrationOpen, "false")
		_, err := h.auth.RegisterStudent(ctx, studentRegistration())
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestRegisterClient(t *testing.T) {
	h := newHarness(t)
	client, err := h.auth.RegisterClient(context.Background(), &models.ClientRegistration{
		OrganizationName: " Globex ",
		ContactName:      "Hank Scorpio",
		Email:            "hank@globex.test",
		Password:         testutil.DefaultTestPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Globex", client.OrganizationName)

	_, err = h.auth.RegisterClient(context.Background(), &models.ClientRegistration{
		OrganizationName: "Globex",
		ContactName:      "Hank",
		Email:            "not-an-email",
		Password:         testutil.DefaultTestPassword,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	login := func(h *harness, email, password, role string) (*models.LoginResponse, error) {
		return h.auth.Login(ctx, &models.LoginRequest{Email: email, Password: password, Role: role}, "127.0.0.1")
	}

	t.Run("success issues stored token", func(t *testing.T) {
		h := newHarness(t)
		student, err := h.stores.Students.GetByID(ctx, h.student.ID)
		require.NoError(t, err)

		resp, err := login(h, student.Email, testutil.DefaultTestPassword, models.RoleStudent)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, models.RoleStudent, resp.Role)
		assert.Equal(t, 1, h.stores.Tokens.Len())

		actor, err := h.auth.Authenticate(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, h.student.ID, actor.ID)
		assert.Equal(t, models.RoleStudent, actor.Role)

		reloaded, err := h.stores.Students.GetByID(ctx, h.student.ID)
		require.NoError(t, err)
		assert.NotNil(t, reloaded.LastLoginAt)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		h := newHarness(t)
		student, err := h.stores.Students.GetByID(ctx, h.student.ID)
		require.NoError(t, err)

		_, errWrong := login(h, student.Email, "WrongPassword1", models.RoleStudent)
		_, errUnknown := login(h, "nobody@uni.test", testutil.DefaultTestPassword, models.RoleStudent)
		assert.ErrorIs(t, errWrong, models.ErrUnauthorized)
		assert.ErrorIs(t, errUnknown, models.ErrUnauthorized)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("role selects the account table", func(t *testing.T) {
		h := newHarness(t)
		student, err := h.stores.Students.GetByID(ctx, h.student.ID)
		require.NoError(t, err)
		_, err = login(h, student.Email, testutil.DefaultTestPassword, models.RoleClient)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("inactive account", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.stores.Students.SetActive(ctx, h.student.ID, false))
		student, err := h.stores.Students.GetByID(ctx, h.student.ID)
		require.NoError(t, err)
		_, err = login(h, student.Email, testutil.DefaultTestPassword, models.RoleStudent)
		assert.ErrorIs(t, err, models.ErrAccountDisabled)
	})
}

func TestAuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	client, err := h.stores.Clients.GetByID(ctx, h.client.ID)
	require.NoError(t, err)

	resp, err := h.auth.Login(ctx, &models.LoginRequest{
		Email: client.Email, Password: testutil.DefaultTestPassword, Role: models.RoleClient,
	}, "")
	require.NoError(t, err)

	_, err = h.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Stored expiry wins over the JWT's own claim.
	h.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = h.auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, 0, h.stores.Tokens.Len(), "expired token is removed")
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	client, err := h.stores.Clients.GetByID(ctx, h.client.ID)
	require.NoError(t, err)

	resp, err := h.auth.Login(ctx, &models.LoginRequest{
		Email: client.Email, Password: testutil.DefaultTestPassword, Role: models.RoleClient,
	}, "")
	require.NoError(t, err)

	require.NoError(t, h.auth.Logout(ctx, resp.Token))
	_, err = h.auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, h.auth.Logout(ctx, resp.Token), "second logout is a no-op")
}

func TestDeactivationRevokesSessions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	student, err := h.stores.Students.GetByID(ctx, h.student.ID)
	require.NoError(t, err)

	resp, err := h.auth.Login(ctx, &models.LoginRequest{
		Email: student.Email, Password: testutil.DefaultTestPassword, Role: models.RoleStudent,
	}, "")
	require.NoError(t, err)

	_, err = h.accounts.SetStudentActive(ctx, h.admin, h.student.ID, false)
	require.NoError(t, err)

	_, err = h.auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	err := h.auth.ChangePassword(ctx, h.client, &models.PasswordChangeRequest{
		CurrentPassword: "WrongPassword1", NewPassword: "AnotherPass123",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = h.auth.ChangePassword(ctx, h.client, &models.PasswordChangeRequest{
		CurrentPassword: testutil.DefaultTestPassword, NewPassword: testutil.DefaultTestPassword,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = h.auth.ChangePassword(ctx, h.client, &models.PasswordChangeRequest{
		CurrentPassword: testutil.DefaultTestPassword, NewPassword: "short",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	require.NoError(t, h.auth.ChangePassword(ctx, h.client, &models.PasswordChangeRequest{
		CurrentPassword: testutil.DefaultTestPassword, NewPassword: "AnotherPass123",
	}))
	client, err := h.stores.Clients.GetByID(ctx, h.client.ID)
	require.NoError(t, err)
	assert.True(t, models.CheckPasswordHash(client.PasswordHash, "AnotherPass123"))
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	user, err := h.auth.Me(context.Background(), h.admin)
	require.NoError(t, err)
	admin, ok := user.(*models.AdminUser)
	require.True(t, ok)
	assert.Equal(t, h.admin.ID, admin.ID)

	_, err = h.auth.Me(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateAdmin(t *testing.T) {
	h := newHarness(t)
	admin, err := h.auth.CreateAdmin(context.Background(), "Root@Uni.Test", "Root", "RootPassword1")
	require.NoError(t, err)
	assert.Equal(t, "root@uni.test", admin.Email)

	_, err = h.auth.CreateAdmin(context.Background(), "root@uni.test", "Root", "RootPassword1")
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestMFAFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	admin, err := h.stores.Admins.GetByID(ctx, h.admin.ID)
	require.NoError(t, err)

	setup, err := h.mfa.Setup(ctx, h.admin)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.NotEmpty(t, setup.QRCode)
	assert.Contains(t, setup.URL, "otpauth://totp/")

	// Pending setup does not gate login yet.
	_, err = h.auth.Login(ctx, &models.LoginRequest{
		Email: admin.Email, Password: testutil.DefaultTestPassword, Role: models.RoleAdmin,
	}, "")
	require.NoError(t, err)

	assert.ErrorIs(t, h.mfa.Enable(ctx, h.admin, wrongCode(t, setup.Secret)), models.ErrInvalidInput)
	require.NoError(t, h.mfa.Enable(ctx, h.admin, currentCode(t, setup.Secret)))

	_, err = h.mfa.Setup(ctx, h.admin)
	assert.ErrorIs(t, err, models.ErrConflict)

	req := &models.LoginRequest{Email: admin.Email, Password: testutil.DefaultTestPassword, Role: models.RoleAdmin}
	_, err = h.auth.Login(ctx, req, "")
	assert.ErrorIs(t, err, models.ErrMFARequired)

	req.TOTPCode = wrongCode(t, setup.Secret)
	_, err = h.auth.Login(ctx, req, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	req.TOTPCode = currentCode(t, setup.Secret)
	_, err = h.auth.Login(ctx, req, "")
	require.NoError(t, err)

	require.NoError(t, h.mfa.Disable(ctx, h.admin, currentCode(t, setup.Secret)))
	reloaded, err := h.stores.Admins.GetByID(ctx, h.admin.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.MFAEnabled)
	assert.Nil(t, reloaded.MFASecret)

	assert.Equal(t, []string{models.AuditMFAEnabled, models.AuditMFADisabled}, h.stores.Audit.Actions())
}

func TestMFAAdminOnly(t *testing.T) {
	h := newHarness(t)
	_, err := h.mfa.Setup(context.Background(), h.client)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, h.mfa.Enable(context.Background(), h.admin, "123456"), models.ErrConflict)
}
