package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many requests")

// RateLimit rejects requests above the limiter's rate with 429. A nil
// limiter lets everything through.
func RateLimit(limiter *rate.Limiter) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		if limiter != nil && !limiter.Allow() {
			resp.AddHeader("Retry-After", "1")
			HandleError(resp, ErrRateLimited, http.StatusTooManyRequests)
			return
		}
		chain.ProcessFilter(req, resp)
	}
}
