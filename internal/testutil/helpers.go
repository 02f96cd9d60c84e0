package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/jwt"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// SetTestJWTSecret sets the JWT_SECRET environment variable for testing
func SetTestJWTSecret(t *testing.T) {
	t.Helper()

	oldSecret := os.Getenv("JWT_SECRET")
	os.Setenv("JWT_SECRET", TestJWTSecret)

	t.Cleanup(func() {
		if oldSecret != "" {
			os.Setenv("JWT_SECRET", oldSecret)
		} else {
			os.Unsetenv("JWT_SECRET")
		}
	})
}

// IssueToken signs a token for actor and stores it so Authenticate accepts it.
func IssueToken(t *testing.T, tokens *TokenStore, actor *models.Actor) string {
	t.Helper()

	token, err := jwt.GenerateToken(actor.ID.String(), actor.Role, 60)
	if err != nil {
		t.Fatalf("Failed to generate auth token: %v", err)
	}
	err = tokens.Store(context.Background(), &models.AuthToken{
		SubjectID: actor.ID,
		Role:      actor.Role,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Failed to store auth token: %v", err)
	}
	return token
}

// MakeAuthenticatedRequest creates an HTTP request carrying a stored token
// for actor in the auth cookie.
func MakeAuthenticatedRequest(t *testing.T, tokens *TokenStore, method, url string, body interface{}, actor *models.Actor) *http.Request {
	t.Helper()

	req := MakeRequest(t, method, url, body)
	req.AddCookie(&http.Cookie{
		Name:  "token",
		Value: IssueToken(t, tokens, actor),
	})
	return req
}

// MakeRequest creates a basic HTTP request
func MakeRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			bodyReader = bytes.NewReader([]byte(raw))
		} else {
			bodyBytes, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("Failed to marshal request body: %v", err)
			}
			bodyReader = bytes.NewReader(bodyBytes)
		}
	}

	req := httptest.NewRequest(method, url, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// AssertJSONResponse checks that the response has the expected status and decodes JSON
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, v interface{}) {
	t.Helper()

	if rr.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d. Body: %s", expectedStatus, rr.Code, rr.Body.String())
	}

	if v != nil && rr.Body.Len() > 0 {
		if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(v); err != nil {
			t.Errorf("Failed to decode JSON response: %v. Body: %s", err, rr.Body.String())
		}
	}
}

// DataEnvelope is the {"data": ...} wrapper used by success responses.
type DataEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// AssertDataResponse checks the status and decodes the data envelope into v.
func AssertDataResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, v interface{}) *DataEnvelope {
	t.Helper()

	var env DataEnvelope
	AssertJSONResponse(t, rr, expectedStatus, &env)
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Errorf("Failed to decode data envelope: %v. Body: %s", err, rr.Body.String())
		}
	}
	return &env
}

// ErrorBody mirrors httputil.ErrorResponse for assertions.
type ErrorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

// AssertErrorResponse checks the status and error code of a failed request.
func AssertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedCode string) ErrorBody {
	t.Helper()

	var body ErrorBody
	AssertJSONResponse(t, rr, expectedStatus, &body)
	if body.Code != expectedCode {
		t.Errorf("Expected error code %s, got %s. Body: %s", expectedCode, body.Code, rr.Body.String())
	}
	return body
}

// AssertCookieSet checks that a cookie with the given name was set
func AssertCookieSet(t *testing.T, rr *httptest.ResponseRecorder, cookieName string) *http.Cookie {
	t.Helper()

	cookies := rr.Result().Cookies()
	for _, cookie := range cookies {
		if cookie.Name == cookieName {
			return cookie
		}
	}

	t.Errorf("Expected cookie %s to be set, but it was not", cookieName)
	return nil
}

// AssertCookieDeleted checks that a cookie was deleted (MaxAge < 0)
func AssertCookieDeleted(t *testing.T, rr *httptest.ResponseRecorder, cookieName string) {
	t.Helper()

	cookie := AssertCookieSet(t, rr, cookieName)
	if cookie != nil && cookie.MaxAge >= 0 {
		t.Errorf("Expected cookie %s to be deleted (MaxAge < 0), but MaxAge was %d", cookieName, cookie.MaxAge)
	}
}

// GenerateTOTPCode returns the current six digit SHA1 code for secret.
func GenerateTOTPCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
