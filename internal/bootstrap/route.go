package bootstrap

// LangParam is the route parameter carrying the language code.
const LangParam = "lang"

// Route is the routing context of a navigation: the matched route's own
// parameters, its parent route, and the URL path segments it consumed.
type Route struct {
	Params map[string]string
	Parent *Route
	URL    []string
}

// LangFromRoute extracts the language code of a route.
//
// The route's own lang parameter wins, then the parent's. For wildcard routes
// without parameters the first URL segment is used. Returns "" when none
// applies.
func LangFromRoute(r *Route) string {
	if r == nil {
		return ""
	}
	if lang := r.Params[LangParam]; lang != "" {
		return lang
	}
	if r.Parent != nil {
		if lang := r.Parent.Params[LangParam]; lang != "" {
			return lang
		}
	}
	if len(r.URL) > 0 {
		return r.URL[0]
	}
	return ""
}
