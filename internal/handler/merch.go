package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/cratescan/api/internal/model"
	"github.com/cratescan/api/internal/service"
	"github.com/cratescan/api/internal/store"
	"github.com/cratescan/api/pkg/response"
)

type MerchHandler struct {
	service   *service.BatchService
	validator *validator.Validate
}

func NewMerchHandler(svc *service.BatchService, v *validator.Validate) *MerchHandler {
	return &MerchHandler{
		service:   svc,
		validator: v,
	}
}

// Start handles POST /api/merch/start
// @Summary      Start merch batch
// @Description  Start an asynchronous merch production batch for a scanned sleeve photo
// @Tags         Merch
// @Accept       json
// @Produce      json
// @Param        request body model.MerchStartRequest true "Merch start request"
// @Success      202 {object} model.MerchStartResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/merch/start [post]
func (h *MerchHandler) Start(c *fiber.Ctx) error {
	var req model.MerchStartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Start(c.Context(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Process handles POST /api/merch/process/:batchId
// @Summary      Process a reserved batch
// @Description  Run the merch pipeline onto a batch identifier already reserved by the scan queue
// @Tags         Merch
// @Accept       json
// @Produce      json
// @Param        batchId path string true "Batch ID"
// @Param        request body model.MerchStartRequest true "Merch start request"
// @Success      202 {object} model.MerchStartResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/merch/process/{batchId} [post]
func (h *MerchHandler) Process(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	if batchID == "" {
		return response.ValidationError(c, "Batch ID is required", nil)
	}

	var req model.MerchStartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Attach(c.Context(), batchID, &req)
	if err != nil {
		if errors.Is(err, service.ErrBatchAlreadyStarted) {
			return response.Conflict(c, err.Error())
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/merch/status/:batchId
// @Summary      Get merch batch status
// @Description  Get the progress, per-stage results and errors of a merch batch
// @Tags         Merch
// @Produce      json
// @Param        batchId path string true "Batch ID"
// @Success      200 {object} model.MerchStatusResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/merch/status/{batchId} [get]
func (h *MerchHandler) Status(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	if batchID == "" {
		return response.ValidationError(c, "Batch ID is required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), batchID)
	if err != nil {
		if errors.Is(err, store.ErrBatchNotFound) {
			return response.NotFound(c, "Batch not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// formatValidationErrors converts validator errors to a field→tag map
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
