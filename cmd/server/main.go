package main

import (
	"github.com/glkb/annograph/internal/server"
	"github.com/glkb/annograph/internal/util"
	"github.com/glkb/annograph/pkg/logger"
	"github.com/glkb/annograph/pkg/logger/console"

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
