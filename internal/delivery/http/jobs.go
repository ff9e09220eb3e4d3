package http

import (
	"net/http"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/strategy"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.POST("/:type/run", h.RunJob)
	}
}

// RunJob starts a job in the background and answers with its running record.
func (h *HttpAPIHandler) RunJob(c echo.Context) error {
	var req dto.RunJobRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	run, err := h.service.SchedulerService.Trigger(c.Request().Context(), strategy.JobType(req.Type))
	if err != nil {
		return h.errorResponse(c, err)
	}
	response := dto.NewBaseResponse(http.StatusAccepted, "Job started", dto.NewJobRunResponse(*run))
	return c.JSON(response.Code, response)
}
