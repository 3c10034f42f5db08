package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/uclone1/yt-competitor-monitor/internal/middleware"
	"github.com/uclone1/yt-competitor-monitor/internal/service"
	"github.com/uclone1/yt-competitor-monitor/pkg/hash"
)

// ReportHandler serves the latest analysis report and the manual run trigger.
type ReportHandler struct {
	worker *service.MonitorWorker
}

func NewReportHandler(worker *service.MonitorWorker) *ReportHandler {
	return &ReportHandler{worker: worker}
}

// GetLatest handles GET /api/report, the full report from the most recent
// run. The report only changes when a new run completes, so the run ID doubles
// as an ETag and lets clients poll cheaply.
func (h *ReportHandler) GetLatest(c fiber.Ctx) error {
	report := h.worker.LatestReport()
	if report == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NO_REPORT", "No monitoring run has completed yet")
	}

	etag := `"` + hash.Fingerprint(report.RunID, 16) + `"`
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return c.JSON(report)
}

// GetChannel handles GET /api/channels/:handle, one channel's result from
// the latest run. Channels without outperforming videos are not part of the
// report and return 404.
func (h *ReportHandler) GetChannel(c fiber.Ctx) error {
	handle, errMsg := middleware.ValidateHandle(c.Params("handle"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_HANDLE", errMsg)
	}

	if h.worker.LatestReport() == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NO_REPORT", "No monitoring run has completed yet")
	}

	result := h.worker.ResultForHandle(handle)
	if result == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"CHANNEL_NOT_FOUND", "Channel has no outperforming videos in the latest report")
	}
	return c.JSON(result)
}

// TriggerRun handles POST /api/run. It kicks off a pipeline run and returns the
// finished report. Runs are serialized; an in-flight run yields 409. With
// ?refresh=true the fetch cache is dropped first so all channels are
// re-scraped.
func (h *ReportHandler) TriggerRun(c fiber.Ctx) error {
	if c.Query("refresh") == "true" {
		h.worker.InvalidateCache(c.Context())
	}

	report, err := h.worker.TriggerRun(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return middleware.ErrorResponse(c, fiber.StatusConflict,
				"RUN_IN_PROGRESS", "A monitoring run is already in progress")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"RUN_FAILED", "Monitoring run failed")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
