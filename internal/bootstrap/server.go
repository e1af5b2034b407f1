package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/shareit/api"
	"github.com/zvrva/shareit/config"
	"github.com/zvrva/shareit/internal/service/booking"
	"github.com/zvrva/shareit/internal/service/items"
	"github.com/zvrva/shareit/internal/service/requests"
	"github.com/zvrva/shareit/internal/service/users"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	bookingSvc booking.BookingUseCase,
	itemSvc items.ItemUseCase,
	userSvc users.UserUseCase,
	requestSvc requests.RequestUseCase,
) error {
	router := gin.Default()

	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewItemHandler(itemSvc).Register(router.Group("/items"))
	api.NewUserHandler(userSvc).Register(router.Group("/users"))
	api.NewRequestHandler(requestSvc).Register(router.Group("/requests"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
