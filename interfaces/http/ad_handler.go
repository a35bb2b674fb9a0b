package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imospy/domain/dto"
	"imospy/usecase"
)

type IAdHandler interface {
	Analyze(c *gin.Context)
	History(c *gin.Context)
}

type AdHandler struct {
	adUsecase usecase.IAdUsecase
}

func NewAdHandler(adUsecase usecase.IAdUsecase) IAdHandler {
	return &AdHandler{adUsecase: adUsecase}
}

func (h *AdHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeAdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, usecase.ErrInvalidAnalysisRequest, logrus.Fields{"bind_error": err.Error()})
		return
	}
	res, err := h.adUsecase.AnalyzeAds(c.Request.Context(), req.CompanyName, req.Percentage)
	if err != nil {
		respondError(c, err, logrus.Fields{"company": req.CompanyName, "percentage": req.Percentage})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdHandler) History(c *gin.Context) {
	company := c.Query("companyName")
	res, err := h.adUsecase.History(c.Request.Context(), company)
	if err != nil {
		respondError(c, err, logrus.Fields{"company": company})
		return
	}
	c.JSON(http.StatusOK, res)
}
