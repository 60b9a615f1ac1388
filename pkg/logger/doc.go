// Package logger provides shared slog attribute helpers so that log
// records emitted across the module use consistent field names.
//
// The module's packages accept a *slog.Logger through their option
// functions and default to a discard logger, leaving handler and level
// configuration to the host application. This package only standardizes
// the attributes those packages attach:
//
//	log.InfoContext(ctx, "session revoked",
//		logger.Component("tokens"),
//		logger.UserID(userID),
//		logger.TokenID(claims.ID),
//	)
//
// Keeping field names in one place makes log aggregation queries stable
// across subsystems.
package logger
