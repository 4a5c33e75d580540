package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"travelagency/internal/utils"
)

// RateLimit caps requests per caller on a route. rate uses the limiter format
// ("30-M", "100-H"). Counters live in Redis when a client is given.
func RateLimit(rate, routeID string, rdb *redis.Client) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}

	prefix := "rate_limiter:" + routeID
	var store limiter.Store
	if rdb != nil {
		store, err = redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:   prefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("redis limiter store for %s: %w", routeID, err)
		}
	} else {
		store = memorystore.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	return ginlimiter.NewMiddleware(
		limiter.New(store, r),
		ginlimiter.WithKeyGetter(rateKey),
		ginlimiter.WithErrorHandler(func(c *gin.Context, err error) {
			utils.LogError(GetRequestID(c), "rate_limit", routeID, err)
			c.Next()
		}),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			abort(c, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
		}),
	), nil
}

// rateKey limits per principal when authenticated, otherwise per client IP.
func rateKey(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok && p.ID != "" {
		return "user:" + p.ID
	}
	return "ip:" + c.ClientIP()
}
