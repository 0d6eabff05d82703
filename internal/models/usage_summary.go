package models

// FamilyUsage buckets token consumption for one provider family.
type FamilyUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	Requests     int `json:"requests"`
}

// UsageSummary aggregates a user's usage history for the dashboard endpoint.
type UsageSummary struct {
	TotalRequests         int                            `json:"total_requests"`
	TotalInputTokens      int                            `json:"total_input_tokens"`
	TotalOutputTokens     int                            `json:"total_output_tokens"`
	EstimatedTotalCostUSD float64                        `json:"estimated_total_cost_usd"`
	ModelUsage            map[ProviderFamily]FamilyUsage `json:"model_usage"`
}
