package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const probeTimeout = 3 * time.Second

// probe checks one backing store within the handler's deadline.
type probe func(ctx context.Context) error

// Health reports whether postgres and redis answer within a short deadline.
// The per-store breakdown tells the operator which side of the deployment is
// unreachable; a down store turns the whole check 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return healthFrom(pingPostgres(db), pingRedis(rdb))
}

func pingPostgres(db *gorm.DB) probe {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func pingRedis(rdb *redis.Client) probe {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func healthFrom(pgProbe, cacheProbe probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		pg := upOrDown(pgProbe(ctx))
		cache := upOrDown(cacheProbe(ctx))

		code := http.StatusOK
		overall := "ok"
		if pg != "up" || cache != "up" {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}

		c.JSON(code, gin.H{
			"status":   overall,
			"postgres": pg,
			"redis":    cache,
		})
	}
}

func upOrDown(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}
