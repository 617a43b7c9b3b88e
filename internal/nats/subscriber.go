package nats

import (
	"fmt"
	"log"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	"github.com/wwwwwert/AlgorithmTesting/internal/models"
)

// RequestProcessor handles decoded run requests. Any type with HandleRequest
// can back the subscriber.
type RequestProcessor interface {
	HandleRequest(req models.RunRequest)
}

type Subscriber struct {
	nc      *nats.Conn
	cfg     config.NATSConfig
	handler RequestProcessor
}

func NewSubscriber(nc *nats.Conn, cfg config.NATSConfig, handler RequestProcessor) *Subscriber {
	return &Subscriber{nc: nc, cfg: cfg, handler: handler}
}

// SubscribeToRequests joins the worker queue group. Every decoded request is
// handed to the processor on its own goroutine; undecodable payloads are
// logged and dropped.
func (s *Subscriber) SubscribeToRequests() (*nats.Subscription, error) {
	subscription, err := s.nc.QueueSubscribe(s.cfg.RunRequestSubject, s.cfg.QueueGroup, func(msg *nats.Msg) {
		var req models.RunRequest
		if err := jsoniter.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("Error unmarshalling run request: %v. Message data: %s", err, string(msg.Data))
			return
		}
		go s.handler.HandleRequest(req)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", s.cfg.RunRequestSubject, err)
	}
	log.Printf("Subscribed to NATS subject: %s, queue group: %s", s.cfg.RunRequestSubject, s.cfg.QueueGroup)
	return subscription, nil
}
