package middleware

import (
	"time"

	"github.com/emicklei/go-restful/v3"
)

// HTTPObserver records one served request. *metrics.PrometheusSink satisfies it.
type HTTPObserver interface {
	ObserveHTTP(route string, method string, status int, seconds float64)
}

// Metrics labels requests by route template so path parameters do not
// explode label cardinality.
func Metrics(observer HTTPObserver) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)

		route := req.SelectedRoutePath()
		if route == "" {
			route = req.Request.URL.Path
		}
		observer.ObserveHTTP(route, req.Request.Method, resp.StatusCode(), time.Since(start).Seconds())
	}
}
