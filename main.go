/*
This is an example of an application that will use the
engine package to test things out
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/vesper-engine/vesper/engine"
	"github.com/vesper-engine/vesper/testbed"
)

func main() {
	config, err := engine.LoadApplicationConfig("vesper.toml")
	if err != nil {
		// Run with defaults when no config file is present.
		config = nil
	}

	eng, err := engine.New(testbed.NewTestGame(config))
	if err != nil {
		panic(err)
	}

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = eng.Shutdown()
	}()

	// run engine
	if err := eng.Run(); err != nil {
		panic(err)
	}
}
