package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imospy/domain/dto"
	"imospy/infrastructure/logger"
	"imospy/usecase"
)

type IScrapeHandler interface {
	Scrape(c *gin.Context)
}

type ScrapeHandler struct {
	scrapeUsecase usecase.IScrapeUsecase
}

func NewScrapeHandler(scrapeUsecase usecase.IScrapeUsecase) IScrapeHandler {
	return &ScrapeHandler{scrapeUsecase: scrapeUsecase}
}

func (h *ScrapeHandler) Scrape(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	var req dto.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Warn(ErrorUnmarshal)
	}
	res, err := h.scrapeUsecase.ScrapeAccount(c.Request.Context(), uid, req.AccountID)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid, "account_id": req.AccountID})
		return
	}
	c.JSON(http.StatusOK, res)
}
