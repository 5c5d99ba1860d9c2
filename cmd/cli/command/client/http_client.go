package client

// http_client.go = typed client over the REST API used by the CLI commands.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Auth request/response structures
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

// Marketplace structures
type AdvertisementResponse struct {
	ID          int64     `json:"id"`
	Owner       int64     `json:"owner"`
	Category    *int64    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaginatedAdvertisementResponse struct {
	Data       []AdvertisementResponse `json:"data"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	Total      int64                   `json:"total"`
	TotalPages int64                   `json:"total_pages"`
}

type AdQuery struct {
	Search   string
	Category int64
	Approved *bool
	Ordering string
	Page     int
	PageSize int
}

func (q AdQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category > 0 {
		v.Set("category", strconv.FormatInt(q.Category, 10))
	}
	if q.Approved != nil {
		v.Set("approved", strconv.FormatBool(*q.Approved))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

type RentRequestResponse struct {
	ID            int64     `json:"id"`
	Advertisement int64     `json:"advertisement"`
	Sender        int64     `json:"sender"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalAds        int64 `json:"total_ads"`
	ApprovedAds     int64 `json:"approved_ads"`
	PendingAds      int64 `json:"pending_ads"`
	AdsLast7Days    int64 `json:"ads_last_7_days"`
	AdsCurrentMonth int64 `json:"ads_current_month"`
	AdsLastMonth    int64 `json:"ads_last_month"`
}

type Notification struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	AdvertisementID int64     `json:"advertisement_id"`
	RentRequestID   *int64    `json:"rent_request_id,omitempty"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"created_at"`
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	fields := make([]string, 0, len(e.Fields))
	for name, problem := range e.Fields {
		fields = append(fields, name+": "+problem)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s (HTTP %d): %s", msg, e.StatusCode, strings.Join(fields, "; "))
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends a JSON request and decodes the JSON answer into out when it is not nil
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Register(ctx context.Context, request *RegisterRequest) (*UserResponse, error) {
	var result UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RevokeToken(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return c.do(ctx, http.MethodPost, "/api/auth/revoke", body, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*UserResponse, error) {
	var result UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Advertisements
func (c *HTTPClient) ListAds(ctx context.Context, q AdQuery) (*PaginatedAdvertisementResponse, error) {
	path := "/api/ads"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var result PaginatedAdvertisementResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) PendingAds(ctx context.Context) ([]AdvertisementResponse, error) {
	var result []AdvertisementResponse
	if err := c.do(ctx, http.MethodGet, "/api/ads/pending", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) ApproveAd(ctx context.Context, adID int64) (*AdvertisementResponse, error) {
	var result AdvertisementResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/ads/%d/approve", adID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Rent requests
func (c *HTTPClient) ListRequests(ctx context.Context, adID int64) ([]RentRequestResponse, error) {
	var result []RentRequestResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/ads/%d/requests", adID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) MyRequests(ctx context.Context) ([]RentRequestResponse, error) {
	var result []RentRequestResponse
	if err := c.do(ctx, http.MethodGet, "/api/requests/mine", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) SendRequest(ctx context.Context, adID int64, message string) (*RentRequestResponse, error) {
	var result RentRequestResponse
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/ads/%d/requests", adID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AcceptRequest(ctx context.Context, adID, requestID int64) (*RentRequestResponse, error) {
	var result RentRequestResponse
	path := fmt.Sprintf("/api/ads/%d/requests/%d/accept", adID, requestID)
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var result DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Notifications
func (c *HTTPClient) UnreadNotifications(ctx context.Context) ([]Notification, error) {
	var result struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread", nil, &result); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

func (c *HTTPClient) MarkAllRead(ctx context.Context) (int64, error) {
	var result struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/notifications/read-all", nil, &result); err != nil {
		return 0, err
	}
	return result.Updated, nil
}
