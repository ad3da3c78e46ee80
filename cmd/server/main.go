package main

import (
	"github.com/trailmap-ai/trailmap/internal/server"
	"github.com/trailmap-ai/trailmap/internal/util"
	"github.com/trailmap-ai/trailmap/pkg/logger"
	"github.com/trailmap-ai/trailmap/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
