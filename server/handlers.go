package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"

	"github.com/portsim/portsim/sim"
)

type errorRsp struct {
	Error string `json:"error"`
}

type nowRsp struct {
	Now int64 `json:"now"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("writing response: %v", err)
	}
}

// writeError maps engine errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var cfgErr *sim.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.Is(err, sim.ErrClockOverflow):
		status = http.StatusBadRequest
	case errors.Is(err, sim.ErrNotConfigured):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorRsp{Error: err.Error()})
}

func (h *handler) getConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Config())
}

// postConfig merges the request body onto the default configuration and
// replaces the running port.
func (h *handler) postConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := sim.ConfigFromJSON(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRsp{Error: err.Error()})
		return
	}

	st, err := h.svc.Replace(cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.State())
}

func (h *handler) step(w http.ResponseWriter, r *http.Request) {
	var delta int64
	if raw := r.URL.Query().Get("delta"); raw != "" {
		d, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRsp{Error: fmt.Sprintf("invalid delta %q", raw)})
			return
		}
		delta = d
	}

	st, err := h.svc.Step(delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) reset(w http.ResponseWriter, _ *http.Request) {
	st, err := h.svc.Reset()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Metrics())
}

func (h *handler) now(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nowRsp{Now: h.svc.Now()})
}

func (h *handler) resource(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		writeError(w, fmt.Errorf("inspecting process: %w", err))
		return
	}
	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		writeError(w, fmt.Errorf("reading cpu usage: %w", err))
		return
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		writeError(w, fmt.Errorf("reading memory usage: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, resourceRsp{CPUPercent: cpuPercent, MemorySize: mem.RSS})
}
