package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MGatewayRequests     MetricKey = "payment_gateway_requests_total"
	MGatewayDuration     MetricKey = "payment_gateway_duration_seconds"
	MRefundsFlagged      MetricKey = "checkout_refunds_flagged_total"
	MInventoryRaceLost   MetricKey = "checkout_inventory_race_lost_total"
)
