package controller

import (
	"examind_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	util.Success(ctx, gin.H{"status": "ok"})
}
