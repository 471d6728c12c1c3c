package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, resp exchangeResponse) (*httptest.Server, *exchangeRequest) {
	t.Helper()
	var captured exchangeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestExchange_Success(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, exchangeResponse{
		Token:           "T1",
		UserID:          "U1",
		DisplayName:     "",
		Email:           "a@b.com",
		LifetimeSeconds: 3600,
	})

	c := NewHTTPClient(srv.URL, "test-key", 0)
	grant, err := c.Exchange(context.Background(), Request{
		Intent:   IntentLogin,
		Email:    "a@b.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	require.Equal(t, "T1", grant.Token)
	require.Equal(t, "U1", grant.UserID)
	require.Equal(t, "", grant.DisplayName)
	require.Equal(t, time.Hour, grant.Lifetime)

	require.Equal(t, "login", captured.Mode)
	require.Equal(t, "a@b.com", captured.Email)
	require.Equal(t, "secret1", captured.Password)
}

func TestExchange_SignupMode(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, exchangeResponse{
		Token: "T2", UserID: "U2", LifetimeSeconds: 60,
	})

	c := NewHTTPClient(srv.URL, "", 0)
	_, err := c.Exchange(context.Background(), Request{Intent: IntentSignup, Email: "n@b.com", Password: "p"})
	require.NoError(t, err)
	require.Equal(t, "signup", captured.Mode)
}

func TestExchange_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"invalid credentials", "INVALID_LOGIN_CREDENTIALS", ErrInvalidCredentials},
		{"rate limited", "TOO_MANY_ATTEMPTS_TRY_LATER", ErrTooManyAttempts},
		{"unknown code", "SOMETHING_ELSE", ErrExchangeFailed},
		{"default", "DEFAULT", ErrExchangeFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusBadRequest, exchangeResponse{ErrorCode: tt.code})
			c := NewHTTPClient(srv.URL, "", 0)
			_, err := c.Exchange(context.Background(), Request{Intent: IntentLogin, Email: "a@b.com", Password: "x"})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExchange_NetworkError_NormalizedToExchangeFailed(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", "", 0)
	_, err := c.Exchange(context.Background(), Request{Intent: IntentLogin, Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, ErrExchangeFailed)
}

func TestExchange_LifetimeFallbackFromJWT(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	srv, _ := newServer(t, http.StatusOK, exchangeResponse{Token: signed, UserID: "U1"})
	c := NewHTTPClient(srv.URL, "", 0)

	grant, err := c.Exchange(context.Background(), Request{Intent: IntentLogin, Email: "a@b.com", Password: "p"})
	require.NoError(t, err)
	require.InDelta(t, (30 * time.Minute).Seconds(), grant.Lifetime.Seconds(), 5)
}

func TestExchange_NoLifetimeAnywhere_Fails(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, exchangeResponse{Token: "opaque", UserID: "U1"})
	c := NewHTTPClient(srv.URL, "", 0)

	_, err := c.Exchange(context.Background(), Request{Intent: IntentLogin, Email: "a@b.com", Password: "p"})
	require.ErrorIs(t, err, ErrExchangeFailed)
}

func TestUserMessage_ThreeFixedMessages(t *testing.T) {
	require.Equal(t, "The email or password is incorrect.", UserMessage(ErrInvalidCredentials))
	require.Equal(t, "Too many attempts. Please try again later.", UserMessage(ErrTooManyAttempts))
	require.Equal(t, "Could not sign you in. Please try again.", UserMessage(ErrExchangeFailed))
	require.Equal(t, "Could not sign you in. Please try again.", UserMessage(context.DeadlineExceeded))
}
