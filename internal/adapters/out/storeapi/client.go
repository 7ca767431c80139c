// Package storeapi reaches the external store over its HTTP API.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shopdispatch/internal/adapters/out/storewire"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"
)

var _ ports.Store = (*Client)(nil)

// Config points the client at the store.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client implements ports.Store against the store's REST API.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("store base url", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errs.NewValueIsInvalidError("store base url must be absolute")
	}

	logger = logger.With("component", "store_api")
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    newHTTPClient(cfg.Timeout, logger),
		logger:  logger,
	}, nil
}

func (c *Client) FetchActiveShipments(ctx context.Context) ([]*shipment.Shipment, error) {
	var dtos []storewire.Shipment
	if err := c.do(ctx, "list active shipments", http.MethodGet, "shipments/active", nil, nil, &dtos); err != nil {
		return nil, err
	}

	// A dropped record would read as a disappearance, so the whole list is refused.
	items, rejected := storewire.ToDomain[*shipment.Shipment]("active shipments", dtos)
	if len(rejected) > 0 {
		return nil, errors.Join(rejected...)
	}
	return items, nil
}

func (c *Client) FetchCompletedShipments(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var dtos []storewire.Shipment
	if err := c.do(ctx, "list completed shipments", http.MethodGet, "shipments/completed", query, nil, &dtos); err != nil {
		return nil, err
	}
	return decodeAll[*shipment.Shipment](ctx, c, "completed shipments", dtos), nil
}

func (c *Client) FetchLiveRiders(ctx context.Context) ([]*rider.LivePosition, error) {
	var dtos []storewire.LivePosition
	if err := c.do(ctx, "list live riders", http.MethodGet, "riders/live", nil, nil, &dtos); err != nil {
		return nil, err
	}
	return decodeAll[*rider.LivePosition](ctx, c, "rider positions", dtos), nil
}

func (c *Client) FetchRiderResponses(ctx context.Context, shipmentID kernel.ID) ([]*rider.Response, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []storewire.RiderResponse
	path := "shipments/" + url.PathEscape(shipmentID.String()) + "/responses"
	if err := c.do(ctx, "list rider responses", http.MethodGet, path, nil, nil, &dtos); err != nil {
		return nil, err
	}
	return decodeAll[*rider.Response](ctx, c, "rider responses", dtos), nil
}

func (c *Client) FetchIssues(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	query := url.Values{}
	if filter.Status != nil {
		query.Set("status", filter.Status.String())
	}
	if filter.ShipmentID != nil {
		query.Set("shipment_id", filter.ShipmentID.String())
	}
	if !filter.Since.IsZero() {
		query.Set("since", filter.Since.UTC().Format(time.RFC3339))
	}

	var dtos []storewire.Issue
	if err := c.do(ctx, "list issues", http.MethodGet, "issues", query, nil, &dtos); err != nil {
		return nil, err
	}
	return decodeAll[*issue.Issue](ctx, c, "issues", dtos), nil
}

func (c *Client) RespondToIssue(ctx context.Context, issueID kernel.ID, action issue.Action, message string) error {
	if err := issueID.Validate(); err != nil {
		return err
	}

	body := storewire.RespondRequest{Action: action.String(), Message: message}
	path := "issues/" + url.PathEscape(issueID.String()) + "/respond"
	err := c.do(ctx, "respond to issue", http.MethodPost, path, nil, body, nil)

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch statusErr.code {
		case http.StatusNotFound:
			return errs.NewObjectNotFoundErrorWithCause("issueID", issueID, err)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return errs.NewValueIsInvalidErrorWithCause("issue is no longer reported", err)
		}
	}
	return err
}

func decodeAll[T any, D interface{ ToDomain() (T, error) }](ctx context.Context, c *Client, subject string, dtos []D) []T {
	items, rejected := storewire.ToDomain[T](subject, dtos)
	for _, err := range rejected {
		c.logger.WarnContext(ctx, "Store record rejected", "error", err)
	}
	return items
}

// statusError is a non-2xx answer the caller may want to interpret.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("store answered %d: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return errs.NewTransientError(op, err)
	}
	defer resp.Body.Close()

	if err := classify(op, resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewDataIntegrityError(op, "malformed response body: "+err.Error())
	}
	return nil
}

func classify(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	cause := &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errs.NewUnauthorizedError(op, cause)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return errs.NewTransientError(op, cause)
	default:
		return fmt.Errorf("%s: %w", op, cause)
	}
}
