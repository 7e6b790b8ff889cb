package main

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/spragsdale/mockdraftapp/go/internal/api"
	"github.com/spragsdale/mockdraftapp/go/internal/config"
)

func setupServer(cfg *config.Config, services *Services) *http.Server {
	deps := api.Deps{
		Drafts:         services.Drafts,
		Leagues:        services.Leagues,
		Players:        services.Players,
		WebSocket:      services.WebSocket,
		Health:         services.Health,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	// a nil *ClickHouseSink in the interface would register the route
	if services.History != nil {
		deps.History = services.History
	}

	// Setup HTTP/2 server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(api.New(deps), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
