/*
Bindless graphics demo: a city of ten thousand buildings drawn with
bindless vertex buffers, uniform buffers and textures
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/spaghettifunk/bindless/engine"
	"github.com/spaghettifunk/bindless/engine/config"
	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/testbed"
)

func main() {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "configuration file (.toml, .yaml or .yml)")
	gridSize := pflag.Int("grid", 0, "override the number of buildings along each side of the city")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if *gridSize > 0 {
		cfg.Scene.GridSize = *gridSize
		if err := cfg.Validate(); err != nil {
			core.LogFatal("%s", err)
		}
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine. GL objects can only be released from the
	// main thread, so it only asks the loop to stop.
	go func() {
		// capture sigterm and other system call here
		sig := <-sigCh
		core.LogInfo("received %s, stopping", sig)
		e.Stop()
	}()

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("%s", err)
	}

	// run engine
	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
