package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mdr/internal/sample"
	"github.com/inodb/vibe-mdr/internal/server"
	"github.com/inodb/vibe-mdr/internal/table"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Long: `Start an HTTP server that classifies annotation tables posted to
/api/classify/{sample} and returns the sample's mutations as JSON.`,
		Example: `  vibe-mdr serve --addr :8080
  curl --data-binary @S1_mdr.tsv localhost:8080/api/classify/S1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			cat, err := loadCatalog(logger)
			if err != nil {
				return err
			}

			cols := table.DefaultColumns()
			if c := viper.GetString("input.gene_column"); c != "" {
				cols.Gene = c
			}
			if c := viper.GetString("input.change_column"); c != "" {
				cols.Change = c
			}

			agg := sample.NewAggregator(cat)
			agg.SetLogger(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, viper.GetString("serve.addr"), server.New(agg, cols, logger), logger)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

// serve runs h on addr until ctx is cancelled.
func serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
