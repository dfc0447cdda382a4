package main

import (
	"buffet/internal/scheduling"
	"buffet/internal/scheduling/handler"
	"buffet/pkg/app"
	"buffet/pkg/client"
	"buffet/pkg/config"
)

const ServiceName = "scheduling-proxy"

func main() {
	cfg := config.Load(ServiceName)

	if cfg.SchedulingAPIToken == "" {
		cfg.Log.Warn("SCHEDULING_API_TOKEN not set, event lookups will fail")
	}

	schedulingClient := scheduling.NewClient(
		client.NewHttpClient(cfg.SchedulingTimeout, cfg.SchedulingRatePerSec),
		cfg.SchedulingAPIToken,
		cfg.SchedulingAPIHosts,
		cfg.Log,
	)

	cfg.Log.Info("Starting Scheduling proxy", "hosts", cfg.SchedulingAPIHosts)
	serverApp := app.NewApplication(cfg)
	serverApp.OpenPaths(handler.ProxyPath)
	serverApp.SetApp(handler.NewProxyHandler(schedulingClient, cfg.CORSAllowedOrigin, cfg.Log))
	serverApp.Run()
}
