package main

import (
	"context"
	"os"
	"time"

	"github.com/printyhq/printy-assist/pkg/cmd"
	"github.com/printyhq/printy-assist/pkg/log"
	"github.com/printyhq/printy-assist/pkg/otelhelper"
	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/printyhq/printy-assist/pkg/session"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9090

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "printy-assist",
		Usage:                 "Chat assistant API for the print shop admin dashboard",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "data-url",
				Usage:   "Data location: file://<dir> for JSON files, memory:// for in-memory",
				Value:   "memory://",
				Sources: cli.EnvVars("DATA_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker list (kafka event bus only)",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for transcript storage; empty keeps transcripts in memory",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Usage:   "How long an idle conversation survives before the janitor ends it",
				Value:   30 * time.Minute,
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Emit OpenTelemetry spans for sessions and turns",
				Sources: cli.EnvVars("TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Printy Assist API")

			store := cmd.NewPersistence(command.String("data-url"))

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			ttl := command.Duration("session-ttl")

			var history session.History
			if redisURL := command.String("redis-url"); redisURL != "" {
				redisHistory, err := session.NewRedisHistory(ctx, redisURL, ttl)
				if err != nil {
					return err
				}

				history = redisHistory
			} else {
				history = session.NewMemoryHistory()
			}

			api := NewAPI(
				logger,
				store,
				registry.Default(logger),
				eventBus,
				history,
				ttl,
			)

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "printy-assist")
				if err != nil {
					return err
				}

				api.WithTracer(tracer)
			}

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
