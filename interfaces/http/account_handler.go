package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imospy/domain/dto"
	"imospy/infrastructure/logger"
	"imospy/usecase"
)

type IAccountHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type AccountHandler struct {
	accountUsecase usecase.IAccountUsecase
}

func NewAccountHandler(accountUsecase usecase.IAccountUsecase) IAccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase}
}

func (h *AccountHandler) List(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	accounts, err := h.accountUsecase.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid})
		return
	}
	c.JSON(http.StatusOK, dto.AccountListResponse{Accounts: accounts})
}

func (h *AccountHandler) Create(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Warn(ErrorUnmarshal)
		respondError(c, usecase.ErrInvalidRequest, logrus.Fields{"user_id": uid})
		return
	}
	account, err := h.accountUsecase.Create(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid, "platform": req.Platform})
		return
	}
	c.JSON(http.StatusCreated, dto.AccountResponse{Account: account})
}

func (h *AccountHandler) Update(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	id := c.Param("id")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Warn(ErrorUnmarshal)
		respondError(c, usecase.ErrInvalidRequest, logrus.Fields{"user_id": uid, "account_id": id})
		return
	}
	account, err := h.accountUsecase.Update(c.Request.Context(), uid, id, req)
	if err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid, "account_id": id})
		return
	}
	c.JSON(http.StatusOK, dto.AccountResponse{Account: account})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		return
	}
	id := c.Param("id")
	if err := h.accountUsecase.Delete(c.Request.Context(), uid, id); err != nil {
		respondError(c, err, logrus.Fields{"user_id": uid, "account_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
