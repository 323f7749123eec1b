package client

import (
	"context"
	"io"
	"net/http"

	"github.com/foomo/cdf/pkg/handler"
	"github.com/pkg/errors"
)

type httpTransport struct {
	client   *http.Client
	endpoint string
}

// NewHTTPTransport will create a new http transport for the given server and client.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, client *http.Client) transport {
	return &httpTransport{
		endpoint: server,
		client:   client,
	}
}

// call requests route and decodes a json reply into response, if response is
// nil the raw body is returned
func (ht *httpTransport) call(ctx context.Context, method string, route handler.Route, response interface{}) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, ht.endpoint+"/"+string(route), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpResponse, err := ht.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if httpResponse.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: httpResponse.StatusCode, Route: route}
	}
	if response == nil {
		return responseBytes, nil
	}
	return responseBytes, errors.Wrap(json.Unmarshal(responseBytes, response), "failed to decode response")
}
