package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_Label(t *testing.T) {
	assert.Equal(t, "document", RouteDocument.label())
	assert.Equal(t, "status", RouteStatus.label())
	assert.Equal(t, "update", RouteUpdate.label())
	assert.Equal(t, "unknown", Route("nope").label())
	assert.Equal(t, "unknown", Route("document/../status").label())
	assert.Equal(t, "unknown", Route("").label())
}
