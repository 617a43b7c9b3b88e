package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	_ "go.uber.org/automaxprocs"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	natsClient "github.com/wwwwwert/AlgorithmTesting/internal/nats"
	"github.com/wwwwwert/AlgorithmTesting/internal/worker"
)

func main() {
	log.Println("Starting AlgorithmTesting worker...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed.")
		}),
	)
	if err != nil {
		log.Fatalf("Error connecting to NATS: %v", err)
	}
	defer nc.Close()
	log.Printf("Connected to NATS server: %s", cfg.NATS.URL)

	publisher := natsClient.NewPublisher(nc, cfg.NATS)
	jobHandler := worker.NewJobHandler(publisher, cfg)
	subscriber := natsClient.NewSubscriber(nc, cfg.NATS, jobHandler)
	subscription, err := subscriber.SubscribeToRequests()
	if err != nil {
		log.Fatalf("Error setting up NATS subscription: %v", err)
	}
	defer func() {
		if err := subscription.Unsubscribe(); err != nil {
			log.Printf("Error unsubscribing: %v", err)
		}
		if err := nc.Drain(); err != nil {
			log.Printf("Error draining NATS connection: %v", err)
		}
	}()

	log.Println("Worker is now listening for run requests on NATS.")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("Shutting down worker...")
}
