package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/teatak/hanseg/config"
	"github.com/teatak/hanseg/posseg"
	"github.com/teatak/hanseg/segmenter"
	"github.com/teatak/hanseg/store"
	"github.com/teatak/hanseg/util"
)

var logger = util.Logger

var (
	configFile string
	verbose    bool
)

func newRouter(a *api) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Recover())
	e.GET("/health", func(c *echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	apiGroup := e.Group("/api/v1")
	apiGroup.Use(middleware.RequestLogger())
	a.register(apiGroup)
	return e
}

func serve(cmd *cobra.Command, args []string) {
	if verbose {
		util.SetVerbose()
	}
	cfg, err := config.Read(configFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read configuration")
	}

	res, err := segmenter.LoadResources(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dictionary")
	}
	seg, err := segmenter.New(res)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load boundary model")
	}
	tagger, err := posseg.NewTagger(res)
	if err != nil {
		logger.WithError(err).Warn("POS tagging disabled")
	}
	normalizer, err := util.NewTextNormalizer(cfg.Normalize.NFKC, cfg.Normalize.T2S)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create normalizer")
	}

	ctx := cmd.Context()
	db, err := store.Open(ctx, cfg.Server.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()
	replayed, err := db.Replay(ctx, seg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to replay user words")
	}
	logger.Infof("Replayed %d user words from %s", replayed, cfg.Server.Database)

	e := newRouter(&api{
		seg:        seg,
		tagger:     tagger,
		store:      db,
		normalizer: normalizer,
		defaultHMM: cfg.Segment.HMM,
	})
	e.Use(echoprometheus.NewMiddleware("hanseg"))
	e.GET("/metrics", echoprometheus.NewHandler())

	server := &http.Server{Addr: cfg.Server.Address, Handler: e}
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server start error")
			stop()
		}
	}()

	<-sigCtx.Done()
	stop()
	logger.Info("Shutting down server gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server stopped gracefully")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Serve segmentation over HTTP",
		Run:   serve,
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("Failed to execute command")
	}
}
