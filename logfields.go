package svcerr

import "log/slog"

// Log attribute keys.
const (
	logKeyKind  = "error_kind"
	logKeyValue = "error_value"
)

func kindAttr(k ErrorKind) slog.Attr { return slog.String(logKeyKind, string(k)) }
func valueAttr(v any) slog.Attr      { return slog.String(logKeyValue, Extract(v)) }
