package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_TRANSFER_SUBMITTED = "transfer_submitted_count"
	METRIC_TRANSFER_CONFIRMED = "transfer_confirmed_count"
	METRIC_TRANSFER_FAILED    = "transfer_failed_count"
	METRIC_WALLET_CONNECTED   = "wallet_connected_count"
	METRIC_NOTIFY_FAILED      = "backend_notify_failed_count"
)

var (
	once     sync.Once
	counters = map[string]prometheus.Counter{}
)

var help = map[string]string{
	METRIC_TRANSFER_SUBMITTED: "Counts transfers handed to the wallet",
	METRIC_TRANSFER_CONFIRMED: "Counts transfers confirmed by the ledger",
	METRIC_TRANSFER_FAILED:    "Counts transfers that ended unsuccessfully",
	METRIC_WALLET_CONNECTED:   "Counts successful wallet connects",
	METRIC_NOTIFY_FAILED:      "Counts failed backend address notifications",
}

// Init registers the counters with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		for name, text := range help {
			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "ledger",
				Subsystem: "session",
				Name:      name,
				Help:      text,
			})
			prometheus.MustRegister(counter)
			counters[name] = counter
		}
	})
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

// Inc increments name if the exporter was initialised.
func Inc(name string) {
	if c, ok := counters[name]; ok {
		c.Inc()
	}
}
