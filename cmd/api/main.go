package main

import (
	"context"
	"net/http"

	"pinpoint-api/internal/collab"
	"pinpoint-api/internal/config"
	"pinpoint-api/internal/handler"
	"pinpoint-api/internal/ratelimit"
	"pinpoint-api/internal/repository"
	"pinpoint-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Redis backs the admission rate limiter; the limiter fails open, so a
	// missing Redis degrades limit enforcement instead of blocking startup.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, rate limiting will fail open")
	}

	// Initialize layers
	repo := repository.NewRepository(conn)

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounterStore(redisClient), config.DailyCreateLimit, log.Logger)
	matcher := service.NewDuplicateMatcher(repo)

	placeService := service.NewPlaceService(
		repo,
		limiter,
		matcher,
		collab.NoopModeration{},
		collab.NoopEnrichment{},
		repo,
		config.EnrichmentTimeout,
		log.Logger,
	)
	searchService := service.NewSearchService(repo, repo, log.Logger)
	activityService := service.NewActivityService(repo, service.ExactResolver{}, collab.NoopModeration{}, repo, log.Logger)

	placeHandler := handler.NewPlaceHandler(placeService)
	favoriteHandler := handler.NewFavoriteHandler(placeService)
	searchHandler := handler.NewSearchHandler(searchService)
	activityHandler := handler.NewActivityHandler(activityService)

	r := gin.Default()
	r.Use(handler.RequestLogger(log.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.POST("/places", placeHandler.Create)
	r.GET("/places", searchHandler.Browse)
	r.GET("/places/nearby", searchHandler.Nearby)
	r.GET("/places/:id", placeHandler.Get)
	r.DELETE("/places/:id", placeHandler.Delete)
	r.PUT("/places/:id/favorite", favoriteHandler.Add)
	r.DELETE("/places/:id/favorite", favoriteHandler.Remove)
	r.POST("/places/:id/activities", activityHandler.Create)
	r.GET("/places/:id/activities", activityHandler.List)
	r.GET("/users/:id/favorites", favoriteHandler.ListForUser)

	r.Run(config.ServerAddress)
}
