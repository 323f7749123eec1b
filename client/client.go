package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/foomo/cdf/pkg/handler"
	"github.com/foomo/cdf/pkg/utils"
	"github.com/foomo/cdf/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the http service of a running watch command
type Client struct {
	t transport
}

// StatusError non 200 reply
type StatusError struct {
	Code  int
	Route handler.Route
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non 200 reply from %s: %d %s", e.Route, e.Code, http.StatusText(e.Code))
}

// NewHTTPClient constructs a new client for the base url of the service,
// e.g. http://127.0.0.1:8080/cdf
func NewHTTPClient(server string) (*Client, error) {
	return NewHTTPClientWithTransport(server, http.DefaultClient)
}

// NewHTTPClientWithTransport uses the given http client
func NewHTTPClientWithTransport(server string, client *http.Client) (*Client, error) {
	if !utils.IsValidURL(server) {
		return nil, errors.Errorf("invalid server url %q", server)
	}
	return &Client{
		t: NewHTTPTransport(strings.TrimSuffix(server, "/"), client),
	}, nil
}

// Update tell the service to poll its source now
func (c *Client) Update(ctx context.Context) (*responses.Export, error) {
	resp := &responses.Export{}
	if _, err := c.t.call(ctx, http.MethodPost, handler.RouteUpdate, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Status returns the last export response
func (c *Client) Status(ctx context.Context) (*responses.Export, error) {
	resp := &responses.Export{}
	if _, err := c.t.call(ctx, http.MethodGet, handler.RouteStatus, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Document returns the current XML document
func (c *Client) Document(ctx context.Context) ([]byte, error) {
	return c.t.call(ctx, http.MethodGet, handler.RouteDocument, nil)
}
