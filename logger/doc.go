// Package logger provides structured logging for connectors using zerolog.
//
// It supports JSON and console output, level configuration, and loggers
// scoped to a connector. Request and response bodies go through Body, which
// writes at its own level and honours a size limit.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  body_level: "debug"
//	  max_body_bytes: 4096
//
// # Usage
//
//	log := logger.Get("billing")
//	log.Info("token refreshed", logger.Fields("expires_in", 3600))
package logger
