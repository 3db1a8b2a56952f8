package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const defaultTimeout = 10 * time.Second

var json = jsoniter.ConfigFastest

// httpDoer is the subset of http.Client the clients need, so tests can swap
// in their own transport.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// baseClient carries what all collaborator clients share.
type baseClient struct {
	baseURL string
	http    httpDoer
}

// ClientOption configures a collaborator client.
type ClientOption func(*baseClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(doer httpDoer) ClientOption {
	return func(c *baseClient) {
		c.http = doer
	}
}

// WithTimeout sets the timeout on the default HTTP client. Ignored when a
// custom client was supplied via WithHTTPClient.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *baseClient) {
		if httpClient, ok := c.http.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

func newBaseClient(baseURL string, options ...ClientOption) baseClient {
	c := baseClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, option := range options {
		option(&c)
	}

	return c
}

// getJSON performs a GET and decodes the response body into out. A 404 is
// reported via the found return value, not as an error.
func (c baseClient) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer closeBody(resp)

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode != http.StatusOK {
		return false, unexpectedStatus(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, err
	}

	return true, nil
}

// postJSON performs a POST with a JSON body and optionally decodes the
// response into out when it is non-nil.
func (c baseClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return unexpectedStatus(resp)
	}

	if out == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func unexpectedStatus(resp *http.Response) error {
	return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL.Path)
}
