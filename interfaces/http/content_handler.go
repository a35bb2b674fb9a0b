package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imospy/usecase"
)

type IContentHandler interface {
	ListAll(c *gin.Context)
	ListByAccount(c *gin.Context)
}

type ContentHandler struct {
	contentUsecase usecase.IContentUsecase
}

func NewContentHandler(contentUsecase usecase.IContentUsecase) IContentHandler {
	return &ContentHandler{contentUsecase: contentUsecase}
}

func (h *ContentHandler) ListAll(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	res, err := h.contentUsecase.ListAll(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) ListByAccount(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	accountID := c.Param("accountId")
	res, err := h.contentUsecase.ListByAccount(c.Request.Context(), uid, accountID)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid, "account_id": accountID})
		return
	}
	c.JSON(http.StatusOK, res)
}
