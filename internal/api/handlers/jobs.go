package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/wonny/fairvalue/internal/scheduler"
	"github.com/wonny/fairvalue/pkg/logger"
)

// JobRunner is the part of *scheduler.Scheduler the API exposes
type JobRunner interface {
	GetJobStats() map[string]scheduler.JobStats
	RunNow(ctx context.Context, jobName string) (scheduler.JobResult, error)
}

// JobsHandler reports and triggers scheduled jobs
type JobsHandler struct {
	jobs   JobRunner
	logger *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(jobs JobRunner, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		jobs:   jobs,
		logger: log.WithField("module", "api.jobs"),
	}
}

// ListJobs handles GET /api/scheduler/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	stats := h.jobs.GetJobStats()

	out := make([]scheduler.JobStats, 0, len(stats))
	for _, st := range stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobName < out[j].JobName })

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  out,
		"count": len(out),
	})
}

// RunJob handles POST /api/scheduler/jobs/{name}/run and waits for the result
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	result, err := h.jobs.RunNow(r.Context(), name)
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.WithError(err).WithField("job", name).Error("Manual job run failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, result)
}
