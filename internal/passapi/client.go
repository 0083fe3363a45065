package passapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// Paths of the partnerships REST surface, relative to the base URL.
const (
	pathSponsors       = "/v1/partnerships/sponsors"
	pathPasses         = "/v1/partnerships/sponsor-passes"
	pathActivePasses   = "/v1/partnerships/sponsor-passes/active"
	pathRevokePassTmpl = "/v1/partnerships/sponsor-passes/%d/revoke"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client calls the partnerships service over HTTP on behalf of one host
// session.  The bearer token is the host token of that session and can be
// rotated with SetToken.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient builds a Client for baseURL.  A nil httpClient gets a client
// with a 10s timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
	}
}

// SetToken replaces the bearer token used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) ListSponsors(ctx context.Context) (model.Page[model.Sponsor], error) {
	var out model.Page[model.Sponsor]
	err := c.do(ctx, http.MethodGet, pathSponsors, nil, nil, &out)
	return out, err
}

func (c *Client) ListActiveSponsorPasses(ctx context.Context, p PageParams) (model.Page[model.SponsorPass], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	var out model.Page[model.SponsorPass]
	err := c.do(ctx, http.MethodGet, pathActivePasses, q, nil, &out)
	return out, err
}

func (c *Client) ListAllSponsorPasses(ctx context.Context, p ListAllParams) (model.Page[model.SponsorPass], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	q.Set("includeRevoked", strconv.FormatBool(p.IncludeRevoked))
	var out model.Page[model.SponsorPass]
	err := c.do(ctx, http.MethodGet, pathPasses, q, nil, &out)
	return out, err
}

func (c *Client) CreateSponsorPass(ctx context.Context, req CreatePassRequest) (model.SponsorPass, error) {
	var out model.SponsorPass
	err := c.do(ctx, http.MethodPost, pathPasses, nil, req, &out)
	return out, err
}

func (c *Client) RevokeSponsorPass(ctx context.Context, req RevokePassRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(pathRevokePassTmpl, req.ID), nil, nil, nil)
}

// do sends one request and decodes a JSON answer into out (when non-nil).
// Non-2xx answers become *APIError carrying the service's message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Detail != "":
			apiErr.Message = body.Detail
		}
	}
	return apiErr
}
