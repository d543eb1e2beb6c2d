package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_service/internal/dto"
)

// getHealth godoc
// @Summary Show the status of server.
// @Description Liveness probe.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, status int, msg string) {
	respondErrorCode(c, status, msg, "")
}

func respondErrorCode(c *gin.Context, status int, msg string, code string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg, Code: code})
}
