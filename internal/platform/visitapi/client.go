// Package visitapi is the typed HTTP client for the remote visit and schedule
// service. The remote service is authoritative for visits and published
// availability windows; the portal holds only cached copies.
package visitapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/platform/auth"
)

var (
	// ErrUnauthorized covers missing, expired or rejected bearer tokens.
	ErrUnauthorized = errors.New("upstream rejected credentials")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("upstream resource not found")
)

// StatusError is returned for other non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// ListDoctors fetches the bookable clinician list.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var out []Doctor
	err := c.do(ctx, http.MethodGet, "/patients/appointment/doctors", nil, &out)
	return out, err
}

// GetDoctorAvailability fetches a clinician's published windows.
func (c *Client) GetDoctorAvailability(ctx context.Context, doctorID string) ([]AvailabilityWindow, error) {
	var out []AvailabilityWindow
	path := fmt.Sprintf("/patients/appointment/%s/availability", url.PathEscape(doctorID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// BookVisit creates an appointment.
func (c *Client) BookVisit(ctx context.Context, req BookVisitRequest) (*Visit, error) {
	var out Visit
	if err := c.do(ctx, http.MethodPost, "/patients/visits/book", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUpcomingVisits fetches a patient's upcoming appointments.
func (c *Client) ListUpcomingVisits(ctx context.Context, patientID string) ([]Visit, error) {
	var out []Visit
	path := fmt.Sprintf("/patients/visits/%s/upcoming", url.PathEscape(patientID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// GetVisitDetails fetches one visit's extended record.
func (c *Client) GetVisitDetails(ctx context.Context, visitID string) (*VisitDetails, error) {
	var out VisitDetails
	path := fmt.Sprintf("/patients/visits/%s/details", url.PathEscape(visitID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RescheduleVisit moves an appointment to a new time.
func (c *Client) RescheduleVisit(ctx context.Context, visitID string, req RescheduleRequest) (*Visit, error) {
	var out Visit
	path := fmt.Sprintf("/patients/visits/%s/reschedule", url.PathEscape(visitID))
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelVisit cancels an appointment.
func (c *Client) CancelVisit(ctx context.Context, visitID string, req CancelRequest) error {
	path := fmt.Sprintf("/patients/visits/%s/cancel", url.PathEscape(visitID))
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// ListAvailability fetches a clinician's windows via the schedule CRUD surface.
func (c *Client) ListAvailability(ctx context.Context, doctorID string) ([]AvailabilityWindow, error) {
	var out []AvailabilityWindow
	path := fmt.Sprintf("/availability/%s", url.PathEscape(doctorID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateAvailability publishes one window.
func (c *Client) CreateAvailability(ctx context.Context, req CreateWindowRequest) (*AvailabilityWindow, error) {
	var out AvailabilityWindow
	if err := c.do(ctx, http.MethodPost, "/availability", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAvailabilitySlot removes one published window.
func (c *Client) DeleteAvailabilitySlot(ctx context.Context, doctorID, slotID string) error {
	path := fmt.Sprintf("/availability/%s/slot/%s", url.PathEscape(doctorID), url.PathEscape(slotID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// GetClinicianProfile reads the clinician profile used to gate schedule writes.
func (c *Client) GetClinicianProfile(ctx context.Context, doctorID string) (*ClinicianProfile, error) {
	var out ClinicianProfile
	path := fmt.Sprintf("/manage/%s", url.PathEscape(doctorID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one authenticated request. The bearer token is read from the
// request context immediately before the call; a missing token fails fast
// with ErrUnauthorized rather than sending an anonymous request.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token := auth.Token(ctx)
	if token == "" {
		return ErrUnauthorized
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("upstream error")
		return &StatusError{Code: resp.StatusCode, Body: buf.String()}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
