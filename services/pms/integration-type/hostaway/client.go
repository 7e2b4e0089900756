package hostaway

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
	"sync"
	"time"

	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	opAccessToken     = "access_token"
	opListListings    = "list_listings"
	opGetListing      = "get_listing"
	opGetAvailability = "get_availability"
	opTestConnection  = "test_connection"

	maxResponseBytes = 10 << 20
)

var (
	errServerStatus = errors.New("upstream server error")
	errInvalidBody  = errors.New("response body is not valid JSON")
	// errCredentialsRejected is returned when the token exchange or an
	// authenticated call was refused with 400, 401 or 403.
	errCredentialsRejected = errors.New("hostaway rejected the credentials")
)

type response struct {
	status int
	body   gjson.Result
	// valid is false when the body was not JSON, e.g. a proxy error page.
	valid bool
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r response) message() string {
	for _, path := range []string{"message", "error_description", "error", "result"} {
		if v := r.body.Get(path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return http.StatusText(r.status)
}

type Client struct {
	baseURL     string
	accountID   string
	apiKey      string
	accessToken string

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger

	// mu serializes token exchanges; the token itself lives in tokens.
	mu     sync.Mutex
	tokens interfaces.TokenCache
}

func (c *Client) upstreamError(op string, resp *response, err error) *pmserrors.UpstreamError {
	uErr := &pmserrors.UpstreamError{
		Provider:  IntegrationTypeHostaway.String(),
		Operation: op,
		Err:       err,
	}
	if resp != nil {
		uErr.StatusCode = resp.status
		uErr.Message = resp.message()
	}
	return uErr
}

// token returns the bearer token used for API calls. An explicit access
// token wins; otherwise the account id and api key are exchanged and the
// result is kept in the token cache until it expires.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.accountID},
		"client_secret": {c.apiKey},
		"scope":         {"general"},
	}
	resp, err := c.call(ctx, opAccessToken, http.MethodPost, "/accessTokens", nil, form, "")
	if err != nil {
		return "", err
	}
	switch {
	case resp.status == http.StatusBadRequest, resp.status == http.StatusUnauthorized, resp.status == http.StatusForbidden:
		return "", errCredentialsRejected
	case !resp.ok():
		return "", c.upstreamError(opAccessToken, &resp, nil)
	case !resp.valid:
		return "", c.upstreamError(opAccessToken, &resp, errInvalidBody)
	}

	token := resp.body.Get("access_token").String()
	if token == "" {
		return "", c.upstreamError(opAccessToken, &resp, errors.New("token response has no access_token"))
	}
	c.tokens.Set(token, time.Duration(resp.body.Get("expires_in").Int())*time.Second)
	return token, nil
}

func (c *Client) dropCachedToken() {
	c.tokens.Drop()
}

// get performs an authenticated GET. Auth refusals come back as
// errCredentialsRejected; other non-2xx statuses as UpstreamError.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) (gjson.Result, error) {
	token, err := c.token(ctx)
	if err != nil {
		return gjson.Result{}, err
	}

	resp, err := c.call(ctx, op, http.MethodGet, path, query, nil, token)
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		c.dropCachedToken()
		return gjson.Result{}, errCredentialsRejected
	}
	if !resp.ok() {
		return gjson.Result{}, c.upstreamError(op, &resp, nil)
	}
	if !resp.valid {
		return gjson.Result{}, c.upstreamError(op, &resp, errInvalidBody)
	}
	if status := resp.body.Get("status"); status.Exists() && !strings.EqualFold(status.String(), "success") {
		return gjson.Result{}, c.upstreamError(op, &resp, fmt.Errorf("response status %q", status.String()))
	}
	result := resp.body.Get("result")
	if !result.Exists() {
		return gjson.Result{}, c.upstreamError(op, &resp, errors.New("response has no result"))
	}
	return result, nil
}

// getArray is get for endpoints whose result is a list.
func (c *Client) getArray(ctx context.Context, op, path string, query url.Values) ([]gjson.Result, error) {
	result, err := c.get(ctx, op, path, query)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, c.upstreamError(op, nil, fmt.Errorf("result is %s, want an array", result.Type))
	}
	return result.Array(), nil
}

// call sends one request through the circuit breaker. Only transport
// failures and 5xx responses are returned as errors, so only those trip it.
func (c *Client) call(ctx context.Context, op, method, path string, query, form url.Values, token string) (response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return response{}, c.upstreamError(op, nil, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	result, err := c.execute(func() (interface{}, error) {
		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		resp := response{status: httpResp.StatusCode}
		if gjson.ValidBytes(raw) {
			resp.body = gjson.ParseBytes(raw)
			resp.valid = true
		}
		if resp.status >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})
	upstreamDuration.WithLabelValues(IntegrationTypeHostaway.String(), op).Observe(time.Since(start).Seconds())

	resp, _ := result.(response)
	outcome := outcomeSuccess
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = outcomeCircuitOpen
		err = &pmserrors.UpstreamError{Provider: IntegrationTypeHostaway.String(), Operation: op, CircuitOpen: true, Err: err}
	case errors.Is(err, errServerStatus):
		outcome = outcomeServerError
		err = c.upstreamError(op, &resp, nil)
	case isTimeout(err):
		outcome = outcomeTimeout
		err = &pmserrors.UpstreamError{Provider: IntegrationTypeHostaway.String(), Operation: op, Timeout: true, Err: err}
	case err != nil:
		outcome = outcomeTransportErr
		err = c.upstreamError(op, nil, err)
	case resp.status >= 400:
		outcome = outcomeClientError
	}
	upstreamRequests.WithLabelValues(IntegrationTypeHostaway.String(), op, outcome).Inc()

	if err != nil {
		c.logger.Warn("hostaway request failed",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return response{}, err
	}
	c.logger.Debug("hostaway request",
		zap.String("operation", op),
		zap.String("path", path),
		zap.Int("status", resp.status),
	)
	return resp, nil
}

func (c *Client) execute(fn func() (interface{}, error)) (interface{}, error) {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) ListListings(ctx context.Context, params interfaces.ListListingsParams) ([]interfaces.Listing, error) {
	params = params.Normalize()

	items, err := c.getArray(ctx, opListListings, "/listings", url.Values{
		"limit":  {strconv.Itoa(params.Limit)},
		"offset": {strconv.Itoa(params.Offset)},
	})
	if err != nil {
		return nil, c.rejectedAsTyped(opListListings, err)
	}

	listings := make([]interfaces.Listing, 0, len(items))
	for _, item := range items {
		listings = append(listings, parseListing(item))
	}
	return listings, nil
}

// GetAvailability forwards the range as given; Hostaway decides whether it
// is valid.
func (c *Client) GetAvailability(ctx context.Context, params interfaces.AvailabilityParams) ([]interfaces.AvailabilityDay, error) {
	if strings.TrimSpace(params.ListingID) == "" {
		return nil, pmserrors.NewValidationError("listingId", "listingId is required")
	}
	listingPath := "/listings/" + url.PathEscape(params.ListingID)

	items, err := c.getArray(ctx, opGetAvailability, listingPath+"/calendar", url.Values{
		"startDate": {params.Start.Format(interfaces.DateLayout)},
		"endDate":   {params.End.Format(interfaces.DateLayout)},
	})
	if err != nil {
		return nil, c.rejectedAsTyped(opGetAvailability, err)
	}

	days := make([]interfaces.AvailabilityDay, 0, len(items))
	missingCurrency := false
	for _, item := range items {
		day := parseAvailabilityDay(item)
		if day.Currency == nil {
			missingCurrency = true
		}
		days = append(days, day)
	}

	if missingCurrency {
		listing, err := c.get(ctx, opGetListing, listingPath, nil)
		if err != nil {
			return nil, c.rejectedAsTyped(opGetListing, err)
		}
		if currency := optString(listing, "currencyCode"); currency != nil {
			for i := range days {
				if days[i].Currency == nil {
					cur := *currency
					days[i].Currency = &cur
				}
			}
		}
	}
	return days, nil
}

func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	_, err := c.getArray(ctx, opTestConnection, "/listings", url.Values{"limit": {"1"}})
	if errors.Is(err, errCredentialsRejected) {
		c.logger.Info("hostaway credentials rejected", zap.String("account_id", c.accountID))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// rejectedAsTyped turns an auth refusal during a data call into a
// CredentialsRejectedError; only TestConnection reports it as a plain false.
func (c *Client) rejectedAsTyped(op string, err error) error {
	if errors.Is(err, errCredentialsRejected) {
		return &pmserrors.CredentialsRejectedError{
			Provider:  IntegrationTypeHostaway.String(),
			Operation: op,
		}
	}
	return err
}
