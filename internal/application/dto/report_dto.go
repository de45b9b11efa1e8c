package dto

// DashboardResponse resumen del estoque para GET /api/reports/dashboard.
type DashboardResponse struct {
	TotalProducts    int `json:"total_products"`
	ActiveProducts   int `json:"active_products"`
	InactiveProducts int `json:"inactive_products"`
	LowStock         int `json:"low_stock"`
	ZeroStock        int `json:"zero_stock"`
}
