package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tutorcrm-backend/services"
	"tutorcrm-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
)

// JobController lets operators run jobs outside their schedule.
type JobController struct {
	Notifier  InactivityRunner
	SoftLimit time.Duration
	Log       *slog.Logger
}

type jobRunResponse struct {
	Report *services.RunReport `json:"report"`
	Errors []string            `json:"errors,omitempty"`
}

// RunNotifyInactive runs the inactivity notifier once. Per-customer failures are
// returned alongside the report; only a failed candidate query is a 500.
func (jc *JobController) RunNotifyInactive(c *gin.Context) {
	limit := jc.SoftLimit
	if limit <= 0 {
		limit = services.DefaultSoftTimeLimit
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), limit)
	defer cancel()

	report, err := jc.Notifier.Run(ctx)
	if report == nil {
		jc.Log.Error("manual inactivity run failed", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to run inactivity notifier")
		return
	}

	resp := jobRunResponse{Report: report}
	for _, e := range multierr.Errors(err) {
		resp.Errors = append(resp.Errors, e.Error())
	}
	c.JSON(http.StatusOK, resp)
}
