package observability

import (
	"sync"
	"time"

	"netdev-go/internal/metrics"
)

type AlertType string

const (
	AlertRxDrops  AlertType = "rx_drops"
	AlertTxErrors AlertType = "tx_errors"
)

type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Value     uint64    `json:"value"`
	Threshold uint64    `json:"threshold"`
	Timestamp int64     `json:"timestamp"`
}

type AlertsConfig struct {
	RxDropsThreshold  uint64
	TxErrorsThreshold uint64
}

type AlertStore struct {
	mu     sync.Mutex
	limit  int
	alerts []Alert
}

func NewAlertStore(limit int) *AlertStore {
	if limit <= 0 {
		limit = 1000
	}
	return &AlertStore{
		limit:  limit,
		alerts: make([]Alert, 0, limit),
	}
}

func (s *AlertStore) Add(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > s.limit {
		s.alerts = append([]Alert{}, s.alerts[len(s.alerts)-s.limit:]...)
	}
}

func (s *AlertStore) List() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, 0, len(s.alerts))
	out = append(out, s.alerts...)
	return out
}

func (s *AlertStore) Limit() int {
	return s.limit
}

// EvaluateAlerts compares two counter snapshots and emits an alert for
// every configured threshold the delta crossed.
func EvaluateAlerts(prev metrics.Snapshot, curr metrics.Snapshot, cfg AlertsConfig) []Alert {
	out := make([]Alert, 0, 2)
	now := time.Now().Unix()
	if cfg.RxDropsThreshold > 0 {
		delta := uint64(0)
		if curr.RxDrops >= prev.RxDrops {
			delta = curr.RxDrops - prev.RxDrops
		}
		if delta >= cfg.RxDropsThreshold {
			out = append(out, Alert{
				ID:        newAlertID(),
				Type:      AlertRxDrops,
				Message:   "receive drops threshold exceeded",
				Value:     delta,
				Threshold: cfg.RxDropsThreshold,
				Timestamp: now,
			})
		}
	}
	if cfg.TxErrorsThreshold > 0 {
		delta := uint64(0)
		if curr.TxErrors >= prev.TxErrors {
			delta = curr.TxErrors - prev.TxErrors
		}
		if delta >= cfg.TxErrorsThreshold {
			out = append(out, Alert{
				ID:        newAlertID(),
				Type:      AlertTxErrors,
				Message:   "transmit errors threshold exceeded",
				Value:     delta,
				Threshold: cfg.TxErrorsThreshold,
				Timestamp: now,
			})
		}
	}
	return out
}

func newAlertID() string {
	return time.Now().Format("20060102150405.000000000")
}
