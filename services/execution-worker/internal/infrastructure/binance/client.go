package binance

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	v1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
)

const (
	orderPath    = "/v3/order"
	apiKeyHeader = "X-MBX-APIKEY"

	// maxErrorBody caps how much of an unexpected error body is kept.
	maxErrorBody = 512
)

// Observer receives the latency of every exchange request.
type Observer func(method string, ok bool, elapsed time.Duration)

// Client is a signed REST client for the Binance spot order endpoint.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     logger.Interface
	observe    Observer

	now func() time.Time
}

var _ v1.Exchange = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver installs a latency observer.
func WithObserver(observe Observer) Option {
	return func(c *Client) {
		c.observe = observe
	}
}

// NewClient creates a client for baseURL, e.g. https://testnet.binance.vision/api.
// Each request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger logger.Interface, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
		observe:    func(string, bool, time.Duration) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceOrder sends a new order identified by the command's order id.
func (c *Client) PlaceOrder(ctx context.Context, creds *v1.Credentials, cmd orderbus.OrderCommand) (*v1.OrderResponse, error) {
	params := url.Values{}
	params.Set("symbol", cmd.Symbol)
	params.Set("side", string(cmd.Side))
	params.Set("type", string(cmd.Type))
	params.Set("quantity", cmd.Quantity.String())
	params.Set("newClientOrderId", cmd.OrderID)
	if cmd.Type == orderbus.TypeLimit && cmd.Price != nil {
		params.Set("price", cmd.Price.String())
		params.Set("timeInForce", "GTC")
	}
	params.Set("timestamp", c.timestamp())

	body, err := c.do(ctx, http.MethodPost, creds, params)
	if err != nil {
		return nil, err
	}

	resp := &v1.OrderResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, errors.NewTracer("undecodable exchange response").Wrap(err)
	}
	return resp, nil
}

// CancelOrder cancels the order whose client order id is the command's order id.
func (c *Client) CancelOrder(ctx context.Context, creds *v1.Credentials, cmd orderbus.CancelCommand) error {
	params := url.Values{}
	params.Set("symbol", cmd.Symbol)
	params.Set("origClientOrderId", cmd.OrderID)
	params.Set("timestamp", c.timestamp())

	_, err := c.do(ctx, http.MethodDelete, creds, params)
	return err
}

func (c *Client) timestamp() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

func (c *Client) do(ctx context.Context, method string, creds *v1.Credentials, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + orderPath + "?" + SignedQuery(params, creds.SecretKey)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	req.Header.Set(apiKeyHeader, creds.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, false, time.Since(start))
		return nil, errors.NewErrorDetails(transportMessage(err), string(errors.ExchangeRequestError), "exchange")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	ok := err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300
	c.observe(method, ok, time.Since(start))
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ExchangeRequestError), "exchange")
	}

	if !ok {
		c.logger.WarnContext(ctx, "exchange request failed",
			logger.Field{Key: "method", Value: method},
			logger.Field{Key: "status", Value: resp.StatusCode},
		)
		return nil, errors.NewErrorDetails(errorMessage(resp.StatusCode, body), string(errors.ExchangeRequestError), "exchange")
	}

	return body, nil
}

// errorMessage prefers the exchange's own msg field.
func errorMessage(status int, body []byte) string {
	apiErr := v1.APIError{}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return apiErr.Msg
	}

	text := truncate(strings.TrimSpace(string(body)), maxErrorBody)
	if text == "" {
		return fmt.Sprintf("exchange returned status %d", status)
	}
	return fmt.Sprintf("exchange returned status %d: %s", status, text)
}

// transportMessage drops the request URL, which carries the signed query,
// from transport errors.
func transportMessage(err error) string {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
