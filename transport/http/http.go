package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/transport/http/middlewares"
	"github.com/autom8ter/logbook/util"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config are custom params for the http server and its openapi specification
type Config struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Version     string `json:"version" yaml:"version" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required"`
	Port        int    `json:"port" yaml:"port" validate:"required"`
}

type httpServer struct {
	params   Config
	logger   *zap.Logger
	router   *mux.Router
	mwares   []mux.MiddlewareFunc
	upgrader websocket.Upgrader
}

// New creates a new read-only http server serving the database
func New(params Config, logger *zap.Logger, mwares ...mux.MiddlewareFunc) (logbook.Transport, error) {
	if err := util.ValidateStruct(&params); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(mwares) == 0 {
		mwares = []mux.MiddlewareFunc{
			middlewares.Logger(logger),
			middlewares.Metrics(),
		}
	}
	h := &httpServer{
		params:   params,
		logger:   logger,
		router:   mux.NewRouter(),
		mwares:   mwares,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
	return h, nil
}

func (h *httpServer) registerRoutes(db *logbook.DB) {
	h.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api := h.router.PathPrefix("/api").Subrouter()
	api.Use(h.mwares...)
	api.HandleFunc("/openapi.yaml", h.specHandler(db)).Methods(http.MethodGet)
	api.HandleFunc("/find", h.findHandler(db)).Methods(http.MethodPost)
	api.HandleFunc("/aggregate", h.aggregateHandler(db)).Methods(http.MethodPost)
	api.HandleFunc("/records", h.listHandler(db)).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}", h.getHandler(db)).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.statsHandler(db)).Methods(http.MethodGet)
	api.HandleFunc("/watch", h.watchHandler(db)).Methods(http.MethodGet)
}

// Serve starts the http server and blocks until the context ends, then
// shuts down gracefully.
func (h *httpServer) Serve(ctx context.Context, db *logbook.DB) error {
	h.registerRoutes(db)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", h.params.Port),
		Handler: h.router,
	}
	egp, ctx := errgroup.WithContext(ctx)
	egp.Go(func() error {
		h.logger.Info("serving http", zap.Int("port", h.params.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	egp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return egp.Wait()
}
