package logfields

import "log/slog"

// Canonical log field names shared by the server, the pipeline and the CLI.
const (
	KeyJobID     = "job_id"
	KeyJobStatus = "status"
	KeyPhase     = "phase"
	KeyFile      = "file"
	KeyDocument  = "document"
	KeyHeadings  = "headings"
	KeyPages     = "pages"
	KeyWorker    = "worker"
	KeyDuration  = "duration_ms"
	KeyMethod    = "method"
	KeyPath      = "path"
	KeyStatus    = "http_status"
	KeyRequestID = "request_id"
	KeyError     = "error"
)

func JobID(id string) slog.Attr      { return slog.String(KeyJobID, id) }
func JobStatus(s string) slog.Attr   { return slog.String(KeyJobStatus, s) }
func Phase(p string) slog.Attr       { return slog.String(KeyPhase, p) }
func File(name string) slog.Attr     { return slog.String(KeyFile, name) }
func Document(name string) slog.Attr { return slog.String(KeyDocument, name) }
func Headings(n int) slog.Attr       { return slog.Int(KeyHeadings, n) }
func Pages(n int) slog.Attr          { return slog.Int(KeyPages, n) }
func Worker(id int) slog.Attr        { return slog.Int(KeyWorker, id) }
func DurationMS(ms int64) slog.Attr  { return slog.Int64(KeyDuration, ms) }
func Method(m string) slog.Attr      { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr      { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr  { return slog.String(KeyRequestID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
