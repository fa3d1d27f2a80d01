// Package logger provides slog construction and attribute helpers shared by
// all WebDash components.
//
// The helpers keep attribute keys consistent across packages so that log
// aggregation queries (user_id, job_id, workspace_id) work everywhere:
//
//	log := logger.New(cfg)
//	log.Info("plan changed",
//		logger.UserID(userID),
//		logger.PlanType(string(newPlan)),
//		logger.Component("billing"),
//	)
package logger
