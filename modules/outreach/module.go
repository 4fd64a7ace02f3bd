package outreach

import (
	"outreach-api/core/cache"
	"outreach-api/core/config"
	"outreach-api/core/database"
	calservice "outreach-api/modules/calendar/service"
	composerservice "outreach-api/modules/composer/service"
	mailservice "outreach-api/modules/mail/service"
	"outreach-api/modules/outreach/controller"
	"outreach-api/modules/outreach/repository"
	"outreach-api/modules/outreach/router"
	"outreach-api/modules/outreach/service"

	"github.com/labstack/echo/v4"
)

// Init wires the outreach module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, cfg *config.Config) error {
	calendar, err := calservice.NewGoogleCalendarService(cfg.Calendar, c)
	if err != nil {
		return err
	}

	repo := repository.NewDraftRepository(db)
	reader := mailservice.NewIMAPReader(cfg.IMAP)
	sender := mailservice.NewSMTPSender(cfg.SMTP)
	composer := composerservice.NewComposerService(cfg.LLM)

	svc := service.NewOutreachService(repo, calendar, reader, sender, composer, cfg.Calendar, cfg.Company)
	ctrl := controller.NewOutreachController(svc)
	rtr := router.NewOutreachRouter(ctrl)

	rtr.Setup(e)
	return nil
}
