package domain

// Route is a directed origin/destination pair. The carrier runs exactly
// two routes, one per direction, and the catalog never changes at runtime.
type Route struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

var routeCatalog = []Route{
	{ID: "nairobi-garissa", Origin: "Nairobi", Destination: "Garissa"},
	{ID: "garissa-nairobi", Origin: "Garissa", Destination: "Nairobi"},
}

// Every route runs the same fixed daily timetable. The schedule is keyed
// per route so a route-specific timetable stays a data change.
var schedules = map[string][]string{
	"nairobi-garissa": {"06:00", "08:00", "10:00", "14:00", "16:00", "20:00"},
	"garissa-nairobi": {"06:00", "08:00", "10:00", "14:00", "16:00", "20:00"},
}

// Routes returns a copy of the route catalog.
func Routes() []Route {
	out := make([]Route, len(routeCatalog))
	copy(out, routeCatalog)
	return out
}

// RouteByID resolves a route identifier against the catalog.
func RouteByID(id string) (Route, bool) {
	for _, r := range routeCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

// DepartureTimes returns the ordered departure times for a route, or nil
// when the route is unknown.
func DepartureTimes(routeID string) []string {
	times, ok := schedules[routeID]
	if !ok {
		return nil
	}
	out := make([]string, len(times))
	copy(out, times)
	return out
}

// HasDeparture reports whether t is one of the route's scheduled departures.
func HasDeparture(routeID, t string) bool {
	for _, dep := range schedules[routeID] {
		if dep == t {
			return true
		}
	}
	return false
}
