// @title Examind Backend API
// @version 1.0
// @description Quiz authoring, submission and automatic grading service.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"examind_backend/internal/app"
	"examind_backend/internal/config"
	"examind_backend/pkg/configwatcher"
	"examind_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig(*configDir+"/config.yaml", cfg, func(newCfg interface{}) {
		if updated, ok := newCfg.(*config.Config); ok {
			*cfg = *updated
			logger.Log.Info("Configuration reloaded")
		}
	})

	application.Run()
}
