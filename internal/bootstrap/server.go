package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dmuriuki/busline/api"
	"github.com/dmuriuki/busline/config"
	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/dmuriuki/busline/internal/service/schedule"
	"github.com/dmuriuki/busline/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger, scheduleSvc schedule.ScheduleUseCase, bookingSvc booking.BookingUseCase) error {
	router := newRouter(cfg, log, scheduleSvc, bookingSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg *config.Config, log logger.Logger, scheduleSvc schedule.ScheduleUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(log))

	api.NewScheduleHandler(scheduleSvc, bookingSvc).Register(router.Group("/routes"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"), router.Group("/holds"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/openapi", cfg.HTTP.SwaggerDir)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/openapi/busline.swagger.json"),
		)))
	}

	return router
}
