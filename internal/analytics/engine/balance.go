package engine

import analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"

// evaluateBalance flags a balance strictly below threshold * projection.
func evaluateBalance(balance, projection int64, threshold float64) analyticsdomain.BalanceStatus {
	return analyticsdomain.BalanceStatus{
		Deficit:      balance - projection,
		IsLowBalance: float64(balance) < float64(projection)*threshold,
	}
}
