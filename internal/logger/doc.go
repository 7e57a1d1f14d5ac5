// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services accept a context and pull the logger from it with FromContext,
// so a command can scope a named logger (WithName) or attach fields (WithKV)
// once and have every downstream entry carry them.
package logger
