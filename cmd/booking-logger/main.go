// Command booking-logger consumes booking events from RabbitMQ and
// appends one line per event to a log file.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/config"
	"github.com/iliyamo/land-looker/internal/queue"
)

func main() {
	_ = godotenv.Load()

	logger := log.New("booking-logger")
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")

	url := config.AMQPURL()
	if url == "" {
		logger.Fatal("RABBITMQ_URL is not set")
	}
	path := os.Getenv("BOOKING_LOG_PATH")
	if path == "" {
		path = "logs/booking.log"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: url, Queue: queue.QueueName, LogPath: path, Logger: logger}
	logger.Infof("consuming %s into %s", queue.QueueName, path)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("consumer: %v", err)
	}
}
