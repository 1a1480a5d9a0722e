package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/trinobridge/opabridge/internal/pdpsim"
	"github.com/trinobridge/opabridge/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	h := server.BuildRouter(server.Deps{
		Decider: mustDecider(logger),
		Log:     logger,
	}, server.Options{EnableCORS: os.Getenv("OPABRIDGE_CORS") == "true"})

	addr := os.Getenv("OPABRIDGE_ADDR")
	if addr == "" {
		addr = ":8181"
	}
	logger.Info("pdpsim listening", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, h))
}

func mustDecider(logger *slog.Logger) pdpsim.Decider {
	if endpoint := os.Getenv("OPABRIDGE_FGA_ENDPOINT"); endpoint != "" {
		d, err := pdpsim.NewFGA(pdpsim.FGAConfig{
			APIURL:  endpoint,
			StoreID: os.Getenv("OPABRIDGE_FGA_STORE"),
			ModelID: os.Getenv("OPABRIDGE_FGA_MODEL"),
		})
		if err != nil {
			panic(err)
		}
		return d
	}
	if path := os.Getenv("OPABRIDGE_RULES"); path != "" {
		d, err := pdpsim.LoadRules(path)
		if err != nil {
			panic(err)
		}
		logger.Info("loaded rules", "path", path, "count", d.Len())
		return d
	}
	logger.Warn("no OPABRIDGE_RULES and no OPABRIDGE_FGA_ENDPOINT, denying everything")
	return pdpsim.DenyAll{}
}
