package nats

import (
	"fmt"
	"log"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	"github.com/wwwwwert/AlgorithmTesting/internal/models"
)

// Publisher emits per-case and final reports for processed run requests.
type Publisher struct {
	nc  *nats.Conn
	cfg config.NATSConfig
}

func NewPublisher(nc *nats.Conn, cfg config.NATSConfig) *Publisher {
	return &Publisher{nc: nc, cfg: cfg}
}

// PublishCaseReport emits the outcome of one executed case.
func (p *Publisher) PublishCaseReport(report models.CaseReport) error {
	data, err := jsoniter.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal case report: %w", err)
	}
	if err := p.nc.Publish(p.cfg.CaseReportSubject, data); err != nil {
		return fmt.Errorf("publish case report: %w", err)
	}
	log.Printf("Published case report: request=%s case=%s status=%s", report.RequestID, report.Case, report.Status)
	return nil
}

// PublishRunReport closes out a request.
func (p *Publisher) PublishRunReport(report models.RunReport) error {
	data, err := jsoniter.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	if err := p.nc.Publish(p.cfg.RunReportSubject, data); err != nil {
		return fmt.Errorf("publish run report: %w", err)
	}
	log.Printf("Published run report: request=%s passed=%d/%d", report.RequestID, report.Passed, report.Total)
	return nil
}
