// Command mxfd runs the MXF coordination core as a standalone process:
// it loads configuration, wires every component via mxf.NewRuntime,
// starts the schedule-tick cron job, and serves the n8n webhook surface
// over HTTP.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxconfig"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxf"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxlog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the MXF config file")
	envFile := flag.String("env-file", ".env", "optional .env file to load before reading config")
	tickSpec := flag.String("tick", "* * * * *", "cron spec for the schedule-tick trigger")
	sandboxCmd := flag.String("sandbox-cmd", "", "comma-separated sandbox executor command, e.g. node,sandbox-runner.js")
	flag.Parse()

	cfg, err := mxconfig.Load(*configPath, *envFile)
	if err != nil {
		slog.Error("mxfd: failed to load config", "error", err)
		os.Exit(1)
	}

	logger := mxlog.New(cfg.Log.Level)

	var sandboxCommand []string
	if *sandboxCmd != "" {
		sandboxCommand = splitCommand(*sandboxCmd)
	}

	rt := mxf.NewRuntime(cfg, logger, sandboxCommand)

	scheduler := mxf.NewScheduler(rt, *tickSpec)
	if err := scheduler.Start(); err != nil {
		logger.Error("mxfd: failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	logger.Info("mxfd: listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, rt.Webhook); err != nil {
		logger.Error("mxfd: server exited", "error", err)
		os.Exit(1)
	}
}

func splitCommand(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
