package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/response"
)

// RateLimitMiddleware создает middleware, ограничивающий частоту запросов
// на отправку кодов входа. Лимит общий на процесс: страница входа одна,
// поэтому разделения по адресам не требуется.
func RateLimitMiddleware(log *slog.Logger, perSec float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSec), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
