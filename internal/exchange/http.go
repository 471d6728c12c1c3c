package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Wire error codes returned by the exchange endpoint.
const (
	codeInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	codeTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER"
)

// HTTPClient talks JSON to the token exchange endpoint.
type HTTPClient struct {
	endpointURL string
	apiKey      string
	httpClient  *http.Client
}

func NewHTTPClient(endpointURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &HTTPClient{
		endpointURL: endpointURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type exchangeRequest struct {
	Mode     string `json:"mode"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type exchangeResponse struct {
	Token           string `json:"token"`
	UserID          string `json:"userId"`
	DisplayName     string `json:"displayName"`
	Email           string `json:"email"`
	LifetimeSeconds int64  `json:"lifetimeSeconds"`
	ErrorCode       string `json:"errorCode"`
}

// Exchange posts the credentials and normalizes the response into a Grant
// or one of the sentinel authentication errors.
func (c *HTTPClient) Exchange(ctx context.Context, req Request) (*Grant, error) {
	body, err := json.Marshal(exchangeRequest{
		Mode:     string(req.Intent),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrExchangeFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrExchangeFailed, err)
	}

	var er exchangeResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExchangeFailed, err)
	}

	if resp.StatusCode != http.StatusOK || er.ErrorCode != "" {
		return nil, c.mapError(er.ErrorCode)
	}

	lifetime := time.Duration(er.LifetimeSeconds) * time.Second
	if lifetime <= 0 {
		// Some deployments omit lifetimeSeconds; the token itself is a JWT,
		// so fall back to its exp claim.
		lifetime = lifetimeFromToken(er.Token)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("%w: no token lifetime", ErrExchangeFailed)
	}

	return &Grant{
		Token:       er.Token,
		UserID:      er.UserID,
		DisplayName: er.DisplayName,
		Email:       er.Email,
		Lifetime:    lifetime,
	}, nil
}

// mapError normalizes wire error codes into the sentinel taxonomy.
// Unknown codes collapse into ErrExchangeFailed.
func (c *HTTPClient) mapError(code string) error {
	switch code {
	case codeInvalidCredentials:
		return ErrInvalidCredentials
	case codeTooManyAttempts:
		return ErrTooManyAttempts
	default:
		return ErrExchangeFailed
	}
}

// lifetimeFromToken reads the exp claim of a JWT without verifying the
// signature. Verification is the server's job; the client only needs the
// expiry instant to schedule the session timer.
func lifetimeFromToken(token string) time.Duration {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
