package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// WorkspaceID records the workspace identifier under the key "workspace_id".
func WorkspaceID(id string) slog.Attr {
	return slog.String("workspace_id", id)
}

// JobID records the generation job identifier under the key "job_id".
func JobID(id string) slog.Attr {
	return slog.String("job_id", id)
}

// PlanType records a plan tier under the key "plan_type".
func PlanType(plan string) slog.Attr {
	return slog.String("plan_type", plan)
}

// EventKind records a billing webhook event kind under the key "event_kind".
func EventKind(kind string) slog.Attr {
	return slog.String("event_kind", kind)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Subdomain records a website subdomain under the key "subdomain".
func Subdomain(sub string) slog.Attr {
	return slog.String("subdomain", sub)
}
