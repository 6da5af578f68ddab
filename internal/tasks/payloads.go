package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants shared by the queue producer and consumer.
const (
	TypePortfolioPublish = "portfolio:publish"
)

// PortfolioPublishPayload describes the minimum needed to publish a portfolio.
type PortfolioPublishPayload struct {
	PortfolioID   uint   `json:"portfolio_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPortfolioPublishTask builds a publish task for the given portfolio.
func NewPortfolioPublishTask(id uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PortfolioPublishPayload{
		PortfolioID:   id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePortfolioPublish, payload), nil
}
