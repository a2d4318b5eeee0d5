package logger

type Event struct {
	TS            string `json:"ts"`
	EventId       string `json:"event_id"`
	CorrelationId string `json:"correlation_id,omitempty"`

	Method string `json:"method"`
	Path   string `json:"path"`
	PeerIp string `json:"peer_ip,omitempty"`

	Code      int    `json:"code"`
	Bytes     int    `json:"bytes"`
	LatencyMs int64  `json:"latency_ms"`
	Result    string `json:"result"` // allow | error
}

type Logger interface {
	Write(event Event)
}
