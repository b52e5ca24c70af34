// Package seatsync keeps a client-side view of the seat pool in step with the
// server: periodic polling, optimistic intents for commands and a refresh
// right after every mutation.
package seatsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every HTTP request.
const DefaultTimeout = 10 * time.Second

// Seat is one entry of GET /api/seats.
type Seat struct {
	ID     int    `json:"id"`
	SeatNo string `json:"seat_no"`
	State  int    `json:"state"`
}

// Available reports whether nobody holds the seat.
func (s Seat) Available() bool { return s.State == 0 }

// SeatClient is the server surface the synchronizer depends on.
type SeatClient interface {
	ListSeats(ctx context.Context) ([]Seat, error)
	// MyReservation returns 0 when the caller holds no seat.
	MyReservation(ctx context.Context) (int, error)
	Reserve(ctx context.Context, seatID int) error
	Release(ctx context.Context, seatID int) error
}

// CommandError is a refusal reported by the server, e.g. "occupied".
type CommandError struct {
	Status int
	Code   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("seat command refused: %s (status %d)", e.Code, e.Status)
}

// IsCommandError reports whether err is a server refusal with the given code.
func IsCommandError(err error, code string) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Code == code
}

// HTTPClient talks to the seat API with a bearer token.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ SeatClient = (*HTTPClient)(nil)

// NewHTTPClient targets baseURL, e.g. "http://localhost:8080".
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *HTTPClient) ListSeats(ctx context.Context) ([]Seat, error) {
	var seats []Seat
	if err := c.get(ctx, "/api/seats", &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

func (c *HTTPClient) MyReservation(ctx context.Context) (int, error) {
	var mine *struct {
		SeatNumber int `json:"seatNumber"`
	}
	if err := c.get(ctx, "/api/seats/my-reservation", &mine); err != nil {
		return 0, err
	}
	if mine == nil {
		return 0, nil
	}
	return mine.SeatNumber, nil
}

func (c *HTTPClient) Reserve(ctx context.Context, seatID int) error {
	return c.command(ctx, "/api/seats/reserve", seatID)
}

func (c *HTTPClient) Release(ctx context.Context, seatID int) error {
	return c.command(ctx, "/api/seats/release", seatID)
}

type commandBody struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeRefusal(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) command(ctx context.Context, path string, seatID int) error {
	payload, err := json.Marshal(map[string]int{"seatId": seatID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeRefusal(resp)
	}
	var body commandBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if !body.OK {
		return &CommandError{Status: resp.StatusCode, Code: body.Code}
	}
	return nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// decodeRefusal reads both {ok:false, code} and {error, code} bodies.
func decodeRefusal(resp *http.Response) error {
	var body commandBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return &CommandError{Status: resp.StatusCode, Code: strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))}
	}
	return &CommandError{Status: resp.StatusCode, Code: body.Code}
}
