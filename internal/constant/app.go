package constant

import "time"

const (
	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"

	QUERY_TIMEOUT_DURATION = 15 * time.Second

	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"

	DefaultPageSize uint = 10
)
