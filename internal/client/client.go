// Package client is the typed HTTP client for the parking backend. It speaks
// the same endpoint surface the web dashboards consume.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"parkdesk/internal/apierr"
	"parkdesk/internal/entities"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client

	token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Login(ctx context.Context, email, password string) (*entities.LoginResponse, error) {
	var resp entities.LoginResponse
	req := entities.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Lots(ctx context.Context) ([]entities.ParkingLot, error) {
	var resp entities.LotsResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/lots", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lots, nil
}

func (c *Client) SearchLots(ctx context.Context, filter entities.LotFilter) ([]entities.ParkingLot, error) {
	var resp entities.LotsResponse
	path := "/api/user/lots/search?" + filter.Query().Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lots, nil
}

func (c *Client) Reserve(ctx context.Context, req entities.ReserveRequest) (*entities.MessageResponse, error) {
	var resp entities.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/reserve", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Vacate(ctx context.Context, req entities.VacateRequest) (*entities.MessageResponse, error) {
	var resp entities.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/vacate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Summary(ctx context.Context, userID int) ([]entities.Reservation, error) {
	var resp entities.SummaryResponse
	path := "/api/user/summary/" + strconv.Itoa(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

// Admin endpoints.

func (c *Client) AdminLots(ctx context.Context) ([]entities.ParkingLot, error) {
	var resp entities.LotsResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/lots", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lots, nil
}

func (c *Client) CreateLot(ctx context.Context, req entities.LotRequest) (*entities.MessageResponse, error) {
	var resp entities.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/lots", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateLot(ctx context.Context, lotID int, req entities.LotRequest) error {
	path := "/api/admin/lots/" + strconv.Itoa(lotID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteLot(ctx context.Context, lotID int) error {
	path := "/api/admin/lots/" + strconv.Itoa(lotID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) LotSpots(ctx context.Context, lotID int) ([]entities.Spot, error) {
	var resp entities.SpotsResponse
	path := "/api/admin/lots/" + strconv.Itoa(lotID) + "/spots"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spots, nil
}

func (c *Client) AddSpot(ctx context.Context, lotID int) error {
	path := "/api/admin/lots/" + strconv.Itoa(lotID) + "/spots"
	return c.do(ctx, http.MethodPost, path, map[string]string{"status": entities.SpotVacant}, nil)
}

func (c *Client) DeleteSpot(ctx context.Context, spotID int) error {
	path := "/api/admin/spots/" + strconv.Itoa(spotID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) SpotDetail(ctx context.Context, spotID int) (*entities.SpotDetail, error) {
	var resp entities.SpotDetail
	path := "/api/admin/spots/" + strconv.Itoa(spotID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Users(ctx context.Context) ([]entities.User, error) {
	var resp entities.UsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) AdminSummary(ctx context.Context) (*entities.AdminSummary, error) {
	var resp entities.AdminSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, email, password string) error {
	req := entities.ProfileUpdateRequest{Email: email, Password: password}
	return c.do(ctx, http.MethodPut, "/api/admin/profile", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, keeping the server's
// message verbatim when there is one.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var errResp entities.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		return &apierr.APIError{
			Code:    resp.StatusCode,
			Message: errResp.Error,
			Details: errResp.Details,
		}
	}
	return apierr.New(resp.StatusCode, http.StatusText(resp.StatusCode))
}
