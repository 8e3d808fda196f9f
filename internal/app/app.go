package app

import (
	"context"
	"os"

	"timekeep/internal/shared/connection"
	"timekeep/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// Redis is a cache, not a dependency the API cannot live without
		logger.Warn("redis unavailable, caching and idempotency disabled", zap.Error(err))
		redisClient = nil
	}

	bucket := os.Getenv("GCS_BUCKET")
	var blobs storage.BlobStore
	if bucket != "" {
		gcsClient, err := connection.ConnectGCS(context.Background())
		if err != nil {
			return err
		}
		blobs = storage.NewGCSStore(gcsClient, bucket)
	} else {
		logger.Warn("GCS_BUCKET not set, face image upload disabled")
	}

	return registerModules(router, gormDB, redisClient, blobs, bucket)
}
