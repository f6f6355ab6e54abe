package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dugoutlabs/statline/app/trigger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := trigger.Initialize(ctx)
	if err != nil {
		panic(err)
	}

	app.StartCron()
	app.SetupServer()
	app.Start(ctx)
}
