package client

import (
	"context"

	"github.com/foomo/cdf/pkg/handler"
)

type transport interface {
	call(ctx context.Context, method string, route handler.Route, response interface{}) ([]byte, error)
}
