// Package middleware provides the inbound HTTP pipeline for the samples
// server. The router installs it in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Handler
//
// Recovery sits outermost so a panic anywhere below still yields a problem
// response. OpenTelemetry and Logging read the chi route pattern after the
// handler returns, so both must be installed with chi's Use rather than
// wrapped around the router.
package middleware
