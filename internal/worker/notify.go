package worker

// PortfolioPublishNotifyMessage is the payload forwarded to the client over
// the WebSocket bridge. Field names match what the frontend parses.
type PortfolioPublishNotifyMessage struct {
	Status        string `json:"status"`
	PortfolioID   uint   `json:"portfolio_id"`
	Slug          string `json:"slug"`
	PublicURL     string `json:"public_url,omitempty"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}
