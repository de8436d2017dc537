// Package logger wraps zap for the axiom-dist tools:
//   - a global sugared logger with a compact console encoder on stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing for the --log-level flag,
//   - leveled helpers (Infof, WarnKV, etc.) that read the logger from a context.
//
// Services tag their context once (name, run ID) and pass it everywhere.
package logger
