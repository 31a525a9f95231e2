package comps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dealflow/internal/domain"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
	"dealflow/pkg/httpx"
)

const maxErrorBody = 512

// Client talks to the comparables HTTP API:
//
//	GET {base}/v1/comps?address=&city=&state=&zip=&beds=&baths=&sqft=
//
// The response lists sale prices, or only an aggregate when the provider
// does not expose individual sales.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type compsResponse struct {
	Prices  []float64 `json:"prices"`
	Count   int       `json:"count"`
	Median  *float64  `json:"median"`
	Average *float64  `json:"avg"`
}

func NewClient(baseURL, token string, timeout time.Duration, opts ...httpx.Option) *Client {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...)
	if token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(token))
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

func (c *Client) GetComps(ctx context.Context, q value.CompsQuery) (*value.CompsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/comps?"+queryParams(q).Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.WrapError(err, errcodes.TimeoutExceeded, "comps provider timed out")
		}
		return nil, domain.WrapError(err, errcodes.CollaboratorUnavailable, "comps provider request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &value.CompsSnapshot{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewError(
			errcodes.CollaboratorUnavailable,
			fmt.Sprintf("comps provider responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		)
	}

	var payload compsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.WrapError(err, errcodes.CollaboratorUnavailable, "failed to decode comps response")
	}

	snapshot := &value.CompsSnapshot{
		Prices:  payload.Prices,
		Count:   payload.Count,
		Median:  payload.Median,
		Average: payload.Average,
	}
	if snapshot.Count == 0 {
		snapshot.Count = len(snapshot.Prices)
	}

	return snapshot, nil
}

func queryParams(q value.CompsQuery) url.Values {
	params := url.Values{}

	set := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			params.Set(key, val)
		}
	}

	set("address", q.Address)
	set("city", q.City)
	set("state", q.State)
	set("zip", q.Zip)

	if q.Beds != nil {
		params.Set("beds", strconv.Itoa(*q.Beds))
	}
	if q.Baths != nil {
		params.Set("baths", strconv.FormatFloat(*q.Baths, 'f', -1, 64))
	}
	if q.Sqft != nil {
		params.Set("sqft", strconv.Itoa(*q.Sqft))
	}

	return params
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
