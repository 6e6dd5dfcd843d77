package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucky0011198/AVR-GARMENT/internal/api"
	"github.com/lucky0011198/AVR-GARMENT/internal/app/session"
	"github.com/lucky0011198/AVR-GARMENT/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address, overrides the config (host:port)")
	serveCmd.Flags().Bool("save-on-exit", true, "Persist the snapshot on shutdown")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr()
	if override, _ := cmd.Flags().GetString("listen"); override != "" {
		addr = override
	}
	saveOnExit, _ := cmd.Flags().GetBool("save-on-exit")

	db, err := sqlite.Open(cfg.Database.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := session.New(cfg, db)
	if err != nil {
		return err
	}

	srv := api.NewServer(sess)
	srv.EnableMetrics()
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (db %s)", addr, db.Path())
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("shutdown: %v", err)
	}

	if saveOnExit {
		if err := sess.Save(); err != nil {
			return fmt.Errorf("save on exit: %w", err)
		}
	}
	return nil
}
