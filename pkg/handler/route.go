package handler

// Route type
type Route string

const (
	// RouteDocument get the current XML document
	RouteDocument Route = "document"
	// RouteStatus get the last export response
	RouteStatus Route = "status"
	// RouteUpdate poll the source now
	RouteUpdate Route = "update"
)

// routeUnknown metric label of all other routes
const routeUnknown = "unknown"

// label bounds the route label to the known routes
func (r Route) label() string {
	switch r {
	case RouteDocument, RouteStatus, RouteUpdate:
		return string(r)
	default:
		return routeUnknown
	}
}
