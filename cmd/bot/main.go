package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/plomlompom/plomrogue-sub000/internal/agent"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	var (
		serverURL string
		thing     string
	)
	flag.StringVar(&serverURL, "url", "http://localhost:8080", "Server base URL")
	flag.StringVar(&thing, "thing", "", "ID of the thing to play (see /debug/queue)")
	flag.Parse()

	id, err := domain.ParseThingID(thing)
	if err != nil {
		logger.Log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := agent.Dial(ctx, serverURL, id)
	if err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.WithField("thing_id", id).Info("Bot connected")

	if err := bot.Run(ctx); err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.Info("Bot stopped")
}
