package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		transactionsTotal,
		transactionsRevenueTotal,
		quotesTotal,
	)
}

var (
	transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Transaction transitions by outcome (created/confirmed/rejected/expired).",
		},
		[]string{"outcome"},
	)

	transactionsRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_revenue_total",
			Help: "Total monetary value of confirmed transactions, smallest currency unit.",
		},
	)

	quotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proration_quotes_total",
			Help: "Proration quotes served, by policy.",
		},
		[]string{"policy"},
	)
)

func IncTransaction(outcome string) {
	transactionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddRevenue(amount int64) {
	transactionsRevenueTotal.Add(float64(amount))
}

func IncQuote(policy string) {
	quotesTotal.WithLabelValues(norm(policy)).Inc()
}
