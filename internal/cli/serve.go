package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trinobridge/opabridge/internal/pdpsim"
	"github.com/trinobridge/opabridge/internal/server"
)

func cmdServe() *cobra.Command {
	var addr string
	var rulesPath string
	var fgaEndpoint string
	var fgaStore string
	var fgaModel string
	var enableCORS bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run a local policy decision simulator on the OPA data API paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			slog.SetDefault(log)

			decider, err := buildDecider(rulesPath, fgaEndpoint, fgaStore, fgaModel, log)
			if err != nil {
				return err
			}

			h := server.BuildRouter(server.Deps{Decider: decider, Log: log}, server.Options{EnableCORS: enableCORS})
			srv := &http.Server{
				Addr:              addr,
				Handler:           h,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("pdpsim listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-stop:
				log.Info("shutting down", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}

	c.Flags().StringVar(&addr, "addr", ":8181", "listen address")
	c.Flags().StringVar(&rulesPath, "rules", "", "JSON rules file; without one every request is denied")
	c.Flags().StringVar(&fgaEndpoint, "fga-endpoint", "", "decide via OpenFGA at this endpoint instead of rules")
	c.Flags().StringVar(&fgaStore, "fga-store", "", "OpenFGA store ID")
	c.Flags().StringVar(&fgaModel, "fga-model", "", "OpenFGA authorization model ID (optional)")
	c.Flags().BoolVar(&enableCORS, "cors", false, "enable CORS for browser-based tooling")
	return c
}

func buildDecider(rulesPath, fgaEndpoint, fgaStore, fgaModel string, log *slog.Logger) (pdpsim.Decider, error) {
	if fgaEndpoint != "" {
		if fgaStore == "" {
			return nil, fmt.Errorf("--fga-store is required with --fga-endpoint")
		}
		return pdpsim.NewFGA(pdpsim.FGAConfig{
			APIURL:  fgaEndpoint,
			StoreID: fgaStore,
			ModelID: fgaModel,
		})
	}
	if rulesPath != "" {
		d, err := pdpsim.LoadRules(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		log.Info("loaded rules", "path", rulesPath, "count", d.Len())
		return d, nil
	}
	log.Warn("no rules file and no FGA endpoint, denying everything")
	return pdpsim.DenyAll{}, nil
}
