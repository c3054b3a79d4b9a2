package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall-backend/shared/config"
	utils "rollcall-backend/shared/utils/auth"
)

// AccessCodeRequest is the access-code exchange body
type AccessCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyAccessCode godoc
// @Summary Exchange the admin access code for a session cookie
// @Description Compares the submitted code against the configured hash and sets the access-code cookie the template editor requires
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AccessCodeRequest true "Access code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /auth/access-code [post]
func VerifyAccessCode(c *gin.Context) {
	var req AccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Access code is required",
		})
		return
	}

	cfg := config.GetConfig()
	if cfg.AccessCodeHash == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server configuration error",
		})
		return
	}

	if !utils.CheckAccessCode(req.Code, cfg.AccessCodeHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid access code",
		})
		return
	}

	token, err := utils.GenerateAccessToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server configuration error",
		})
		return
	}

	c.SetCookie(utils.AccessCodeCookieName, token, int(utils.AccessSessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
