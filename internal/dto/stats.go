package dto

// BuyerStats is the buyer dashboard rollup
type BuyerStats struct {
	Coins              int64   `json:"coins"`
	PendingSubmissions int64   `json:"pending_submissions"`
	TotalPaidDollars   float64 `json:"total_paid_dollars"`
}

// WorkerStats is the worker dashboard rollup
type WorkerStats struct {
	Coins            int64 `json:"coins"`
	TotalSubmissions int64 `json:"total_submissions"`
	TotalEarnings    int64 `json:"total_earnings"`
}

// AdminStats is the platform-wide rollup
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalBuyers   int64 `json:"total_buyers"`
	TotalWorkers  int64 `json:"total_workers"`
	TotalCoins    int64 `json:"total_coins"`
	TotalPayments int64 `json:"total_payments"`
}
