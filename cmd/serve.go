package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/geo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis as a read-only JSON API",
	Long: `Loads the dataset once, scores it, and serves derived tables over
HTTP: summary statistics, priority rankings, rural/urban gaps, trends,
deprivation counts, correlations, and region geometry for choropleth maps.
The dataset is immutable for the lifetime of the process; derived tables are
computed per request.

Examples:
  amenities serve --input scored.csv --port 8080
  amenities serve --input scored.csv --shapefile states.shp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port, _ := cmd.Flags().GetInt("port")
		shapefile, _ := cmd.Flags().GetString("shapefile")
		shapeField, _ := cmd.Flags().GetString("shape-field")
		if port == 0 {
			port = cfg.Server.Port
		}

		d, err := scoredInput(ctx, cmd)
		if err != nil {
			return err
		}

		var shapes []geo.RegionShape
		if shapefile != "" {
			shapes, err = geo.LoadShapes(shapefile, shapeField)
			if err != nil {
				return err
			}
		}

		api := &apiServer{
			data:          d,
			shapes:        shapes,
			threshold:     cfg.Analysis.PriorityThreshold,
			topN:          cfg.Analysis.TopN,
			householdSize: cfg.Metrics.HouseholdSize,
			unitCosts:     cfg.Metrics.UnitCosts,
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("observations", d.Len()),
			zap.Int("shapes", len(shapes)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func (s *apiServer) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/priority", s.handlePriority)
		r.Get("/gap", s.handleGap)
		r.Get("/trend", s.handleTrend)
		r.Get("/deprivation", s.handleDeprivation)
		r.Get("/top", s.handleTop)
		r.Get("/correlation", s.handleCorrelation)
		r.Get("/regions/geo", s.handleRegionsGeo)
	})
	return r
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func init() {
	f := serveCmd.Flags()
	f.Int("port", 0, "server port (default from config)")
	f.String("shapefile", "", "region boundary shapefile for /api/regions/geo")
	f.String("shape-field", "", "DBF attribute holding the region name")
	addInputFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
