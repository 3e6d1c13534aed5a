package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBackend records calls and replies with canned bodies per operation
type fakeBackend struct {
	t       *testing.T
	replies map[string]func(w http.ResponseWriter, body map[string]any)
	calls   []string
	keys    []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	require.Equal(f.t, http.MethodPost, r.Method)
	op := r.URL.Path[len("/v1/accounts:"):]
	f.calls = append(f.calls, op)
	f.keys = append(f.keys, r.URL.Query().Get("key"))

	var body map[string]any
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))

	reply, ok := f.replies[op]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorBody{Code: 404, Message: "NOT_FOUND"}})
		return
	}
	reply(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, f *fakeBackend) *Client {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c := NewClient(Config{Endpoint: srv.URL + "/", APIKey: "test-key"})
	c.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestClient_SignIn(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSignInWithPassword: func(w http.ResponseWriter, body map[string]any) {
			require.Equal(t, "ada@example.com", body["email"])
			require.Equal(t, "s3cret", body["password"])
			require.Equal(t, true, body["returnSecureToken"])
			writeJSON(w, http.StatusOK, TokenResponse{
				LocalID:      "uid-1",
				Email:        "ada@example.com",
				DisplayName:  "ada",
				IDToken:      "id-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    "3600",
				Registered:   true,
			})
		},
	}}
	c := newTestClient(t, f)

	user, err := c.SignIn(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "uid-1", user.ID)
	require.Equal(t, "ada", user.DisplayName)
	require.Equal(t, "id-token", user.Token.AccessToken)
	require.Equal(t, "refresh-token", user.Token.RefreshToken)
	require.Equal(t, time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), user.Token.Expiry)
	require.Equal(t, []string{"test-key"}, f.keys)
}

func TestClient_SignInErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		expected error
	}{
		{"unknown email", http.StatusBadRequest, "EMAIL_NOT_FOUND", ErrEmailNotFound},
		{"wrong password", http.StatusBadRequest, "INVALID_PASSWORD", ErrInvalidPassword},
		{"new credential code", http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS", ErrInvalidPassword},
		{"rate limited", http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER : Access temporarily disabled", ErrTooManyAttempts},
		{"disabled", http.StatusBadRequest, "USER_DISABLED", ErrUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
				OpSignInWithPassword: func(w http.ResponseWriter, _ map[string]any) {
					writeJSON(w, tt.status, ErrorResponse{Error: ErrorBody{Code: tt.status, Message: tt.message}})
				},
			}}
			c := newTestClient(t, f)

			_, err := c.SignIn(context.Background(), "ada@example.com", "nope")
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.expected), "got %v", err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_UnparseableError(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSendOobCode: func(w http.ResponseWriter, _ map[string]any) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		},
	}}
	c := newTestClient(t, f)

	err := c.SendPasswordReset(context.Background(), "ada@example.com")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "Request failed (Bad Gateway)", Message(err))
}

func TestClient_RegisterSetsDisplayName(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSignUp: func(w http.ResponseWriter, body map[string]any) {
			require.Equal(t, "grace@example.com", body["email"])
			writeJSON(w, http.StatusOK, TokenResponse{
				LocalID: "uid-2", Email: "grace@example.com", IDToken: "first", ExpiresIn: "3600",
			})
		},
		OpUpdate: func(w http.ResponseWriter, body map[string]any) {
			require.Equal(t, "first", body["idToken"])
			require.Equal(t, "grace", body["displayName"])
			writeJSON(w, http.StatusOK, TokenResponse{
				LocalID: "uid-2", Email: "grace@example.com", DisplayName: "grace", IDToken: "second", ExpiresIn: "3600",
			})
		},
	}}
	c := newTestClient(t, f)

	user, err := c.Register(context.Background(), "grace", "grace@example.com", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, "grace", user.DisplayName)
	require.Equal(t, "second", user.Token.AccessToken)
	require.Equal(t, []string{OpSignUp, OpUpdate}, f.calls)
}

func TestClient_RegisterKeepsAccountWhenUpdateFails(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSignUp: func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, http.StatusOK, TokenResponse{
				LocalID: "uid-4", Email: "neo@example.com", IDToken: "signed-up", ExpiresIn: "3600",
			})
		},
		OpUpdate: func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: ErrorBody{Code: 503, Message: "UNAVAILABLE"}})
		},
	}}
	c := newTestClient(t, f)

	user, err := c.Register(context.Background(), "neo", "neo@example.com", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, "uid-4", user.ID)
	require.Equal(t, "neo@example.com", user.Email)
	require.Equal(t, "signed-up", user.Token.AccessToken)
	require.Empty(t, user.DisplayName)
	require.Equal(t, []string{OpSignUp, OpUpdate}, f.calls)
}

func TestClient_RegisterWithoutUsername(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSignUp: func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, http.StatusOK, TokenResponse{LocalID: "uid-3", IDToken: "t"})
		},
	}}
	c := newTestClient(t, f)

	user, err := c.Register(context.Background(), "", "x@example.com", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, "uid-3", user.ID)
	require.True(t, user.Token.Expiry.IsZero())
	require.Equal(t, []string{OpSignUp}, f.calls)
}

func TestClient_SendPasswordReset(t *testing.T) {
	f := &fakeBackend{t: t, replies: map[string]func(http.ResponseWriter, map[string]any){
		OpSendOobCode: func(w http.ResponseWriter, body map[string]any) {
			require.Equal(t, RequestTypePasswordReset, body["requestType"])
			writeJSON(w, http.StatusOK, OobCodeResponse{Email: "ada@example.com"})
		},
	}}
	c := newTestClient(t, f)

	require.NoError(t, c.SendPasswordReset(context.Background(), "ada@example.com"))
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient(Config{Endpoint: "http://127.0.0.1:1"})

	_, err := c.SignIn(context.Background(), "ada@example.com", "s3cret")
	require.Error(t, err)
	require.Equal(t, "Could not reach the authentication service", Message(err))
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", Message(nil))
	require.Equal(t, "The email or password is incorrect",
		Message(newAPIError(http.StatusBadRequest, "INVALID_PASSWORD")))
	require.Equal(t, "The password is too weak",
		Message(newAPIError(http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")))
	require.Equal(t, "Request failed (SOMETHING_NEW)",
		Message(newAPIError(http.StatusBadRequest, "SOMETHING_NEW")))
}

func TestNewAPIError(t *testing.T) {
	err := newAPIError(http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
	require.Equal(t, "WEAK_PASSWORD", err.Code)
	require.Equal(t, "Password should be at least 6 characters", err.Message)
	require.Equal(t, "auth backend: WEAK_PASSWORD (400): Password should be at least 6 characters", err.Error())
}
