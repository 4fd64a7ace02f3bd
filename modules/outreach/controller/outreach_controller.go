package controller

import (
	"fmt"

	"outreach-api/core/controller"
	"outreach-api/core/errors"
	"outreach-api/modules/outreach/dto"
	"outreach-api/modules/outreach/service"

	"github.com/labstack/echo/v4"
)

// OutreachController handles draft HTTP requests
type OutreachController struct {
	controller.BaseController
	OutreachService service.OutreachService
}

func NewOutreachController(svc service.OutreachService) *OutreachController {
	return &OutreachController{
		BaseController:  controller.NewBaseController(),
		OutreachService: svc,
	}
}

// GenerateDraft handles POST /outreach/draft
func (c *OutreachController) GenerateDraft(ctx echo.Context) error {
	var req dto.GenerateDraftRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, err := c.OutreachService.GenerateDraft(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "Draft generated successfully")
}

// Act handles POST /outreach/act. "U" refines the draft with feedback,
// "A" approves it.
func (c *OutreachController) Act(ctx echo.Context) error {
	var req dto.ActRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	switch req.Decision {
	case dto.DecisionUpdate:
		result, err := c.OutreachService.UpdateDraft(ctx.Request().Context(), req.Feedback)
		if err != nil {
			return c.ErrorResponse(ctx, err)
		}
		return c.SuccessResponse(ctx, result, "Draft updated successfully")

	case dto.DecisionApprove:
		result, err := c.OutreachService.ApproveDraft(ctx.Request().Context())
		if err != nil {
			return c.ErrorResponse(ctx, err)
		}
		return c.SuccessResponse(ctx, result, "Draft approved successfully")

	default:
		return c.BadRequest(errors.ErrInvalidInput,
			fmt.Sprintf("Unknown decision %q, expected %q or %q", req.Decision, dto.DecisionUpdate, dto.DecisionApprove))
	}
}

// GetDraft handles GET /outreach/draft
func (c *OutreachController) GetDraft(ctx echo.Context) error {
	result, err := c.OutreachService.GetDraft(ctx.Request().Context())
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "Active draft")
}

// GetHistory handles GET /outreach/history
func (c *OutreachController) GetHistory(ctx echo.Context) error {
	result, err := c.OutreachService.GetHistory(ctx.Request().Context())
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "Sent history")
}
