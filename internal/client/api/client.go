package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/jwtgate/pkg/api"
)

// ErrAccessExpired совпадает с ответом 401 "access token expired"
var ErrAccessExpired = errors.New("access token expired")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Is позволяет проверять истекший access token через errors.Is
func (e *StatusError) Is(target error) bool {
	return target == ErrAccessExpired &&
		e.StatusCode == http.StatusUnauthorized &&
		e.Message == ErrAccessExpired.Error()
}

// Tokens пара токенов из ответа /login или /reissue
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем access token при редиректе
				if len(via) > 0 && via[0].Header.Get(api.HeaderAccess) != "" {
					req.Header.Set(api.HeaderAccess, via[0].Header.Get(api.HeaderAccess))
				}
				return nil
			},
		},
	}
}

// request описывает один запрос к серверу
type request struct {
	body    interface{}
	method  string
	path    string
	access  string
	refresh string
}

// Join регистрирует нового пользователя
func (c *Client) Join(ctx context.Context, creds api.Credentials) (*api.JoinResponse, error) {
	var resp api.JoinResponse
	_, err := c.doRequest(ctx, request{method: http.MethodPost, path: "/join", body: creds}, &resp)
	if err != nil {
		return nil, fmt.Errorf("join request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию и возвращает пару токенов
func (c *Client) Login(ctx context.Context, creds api.Credentials) (*Tokens, error) {
	resp, err := c.doRequest(ctx, request{method: http.MethodPost, path: "/login", body: creds}, nil)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return tokensFrom(resp)
}

// Reissue обменивает refresh token на новую пару
func (c *Client) Reissue(ctx context.Context, refreshToken string) (*Tokens, error) {
	resp, err := c.doRequest(ctx, request{method: http.MethodPost, path: "/reissue", refresh: refreshToken}, nil)
	if err != nil {
		return nil, fmt.Errorf("reissue request failed: %w", err)
	}
	return tokensFrom(resp)
}

// Logout отзывает refresh token. При all=true отзываются все сессии
// пользователя, и возвращается их количество.
func (c *Client) Logout(ctx context.Context, refreshToken string, all bool) (int, error) {
	req := request{method: http.MethodPost, path: "/logout", refresh: refreshToken}
	if !all {
		if _, err := c.doRequest(ctx, req, nil); err != nil {
			return 0, fmt.Errorf("logout request failed: %w", err)
		}
		return 1, nil
	}

	req.path += "?" + url.Values{"all": []string{"true"}}.Encode()
	var resp api.LogoutResponse
	if _, err := c.doRequest(ctx, req, &resp); err != nil {
		return 0, fmt.Errorf("logout request failed: %w", err)
	}
	return resp.Revoked, nil
}

// Main запрашивает GET /; accessToken может быть пустым
func (c *Client) Main(ctx context.Context, accessToken string) (*api.MainResponse, error) {
	var resp api.MainResponse
	_, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/", access: accessToken}, &resp)
	if err != nil {
		return nil, fmt.Errorf("main request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает данные аутентифицированного пользователя
func (c *Client) Me(ctx context.Context, accessToken string) (*api.MeResponse, error) {
	var resp api.MeResponse
	_, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/me", access: accessToken}, &resp)
	if err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// Admin запрашивает ресурс, доступный только ROLE_ADMIN
func (c *Client) Admin(ctx context.Context, accessToken string) (*api.AdminResponse, error) {
	var resp api.AdminResponse
	_, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/admin", access: accessToken}, &resp)
	if err != nil {
		return nil, fmt.Errorf("admin request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	_, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/health"}, &resp)
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// tokensFrom достает access token из заголовка и refresh token из cookie
func tokensFrom(resp *http.Response) (*Tokens, error) {
	tokens := &Tokens{AccessToken: resp.Header.Get(api.HeaderAccess)}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == api.CookieRefresh {
			tokens.RefreshToken = cookie.Value
		}
	}

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return nil, errors.New("response does not carry a token pair")
	}
	return tokens, nil
}

// doRequest выполняет HTTP запрос. Тело ответа уже прочитано,
// заголовки и cookie доступны через возвращаемый ответ.
func (c *Client) doRequest(ctx context.Context, r request, result interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.access != "" {
		req.Header.Set(api.HeaderAccess, r.access)
	}
	if r.refresh != "" {
		req.AddCookie(&http.Cookie{Name: api.CookieRefresh, Value: r.refresh})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp, nil
}

// errorMessage разбирает тело ошибки: JSON ErrorResponse или plain text
func errorMessage(body []byte) string {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return strings.TrimSpace(string(body))
}
