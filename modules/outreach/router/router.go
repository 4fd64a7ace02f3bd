package router

import (
	"outreach-api/modules/outreach/controller"

	"github.com/labstack/echo/v4"
)

// OutreachRouter handles draft routes
type OutreachRouter struct {
	OutreachController *controller.OutreachController
}

func NewOutreachRouter(outreachController *controller.OutreachController) *OutreachRouter {
	return &OutreachRouter{
		OutreachController: outreachController,
	}
}

// Setup registers draft routes
func (r *OutreachRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	routes := v1.Group("/outreach")

	routes.POST("/draft", r.OutreachController.GenerateDraft)
	routes.GET("/draft", r.OutreachController.GetDraft)
	routes.POST("/act", r.OutreachController.Act)
	routes.GET("/history", r.OutreachController.GetHistory)
}
