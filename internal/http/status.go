package http

import (
	"context"
	"net/http"
	"time"
)

// StatusResult is the outcome of one liveness check.
type StatusResult struct {
	Connected bool
	Message   string
	Timestamp *time.Time
}

// CheckStatus runs the liveness query against src. A failure is reported
// in the result, never returned.
func CheckStatus(ctx context.Context, src interface {
	Now(ctx context.Context) (time.Time, error)
}) StatusResult {
	now, err := src.Now(ctx)
	if err != nil {
		return StatusResult{Message: "ERROR: " + err.Error()}
	}
	return StatusResult{
		Connected: true,
		Message:   "OK (" + formatTime(now) + ")",
		Timestamp: &now,
	}
}

type statusPage struct {
	Status   StatusResult
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Warnings []string
}

func (h *handlers) statusHandler(w http.ResponseWriter, r *http.Request) {
	res := CheckStatus(r.Context(), h.store)
	if !res.Connected {
		h.log.Warn("database status check failed", "path", r.URL.Path, "error", res.Message)
	}

	db := h.cfg.DB
	page := statusPage{
		Status:   res,
		Host:     db.Host,
		Port:     db.Port,
		Database: db.Name,
		User:     db.User,
		Warnings: h.cfg.Warnings,
	}
	if db.Password != "" {
		page.Password = "********"
	}
	h.render(w, r, "status.html", page)
}
