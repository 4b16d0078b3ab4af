package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports process liveness together with database reachability and host stats.
type HealthHandler struct {
	db      *sql.DB
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	HostUptime    uint64  `json:"hostUptimeSeconds,omitempty"`
	MemoryUsedPct float64 `json:"memoryUsedPercent,omitempty"`
}

// Check pings the database and collects host memory and uptime.
// Host stats are best effort; only the database decides the status code.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:        "ok",
		Database:      "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
	code := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database unreachable")
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.MemoryUsedPct = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msg("Health check: memory stats unavailable")
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		resp.HostUptime = up
	}

	common.RespondWithJSON(w, code, resp)
}
