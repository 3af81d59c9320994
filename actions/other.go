package actions

import (
	"strconv"

	"github.com/ericlagergren/decimal"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/logger"
)

// RequestError is the standard error response body
type RequestError struct {
	Error string `json:"error"`
}

// Ping godoc
// swagger:route GET /ping status ping
// Ping
//
// Check that the service is up
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: StringResp
func Ping(c *gin.Context) {
	c.JSON(200, "pong")
}

func abortWithError(c *gin.Context, code int, message string) {
	l := getlog(c)
	l.Debug().Stack().Int("resp_code", code).Msg(message)
	c.AbortWithStatusJSON(code, RequestError{Error: message})
}

func getlog(c *gin.Context) zerolog.Logger {
	return logger.GetLogger(c)
}

func getUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func getQueryAsInt(c *gin.Context, name string, def int) int {
	val := c.Query(name)
	if val == "" {
		return def
	}
	param, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return param
}

func getPagination(c *gin.Context) (int, int) {
	page := getQueryAsInt(c, "page", 1)
	limit := getQueryAsInt(c, "limit", 10)
	return page, limit
}

func getPostedDecimal(c *gin.Context, name string) (*decimal.Big, bool) {
	val, ok := conv.NewDecimalFromString(c.PostForm(name))
	if !ok {
		return nil, false
	}
	return val, true
}

func getPostedFloat(c *gin.Context, name string) (float64, bool) {
	val, err := strconv.ParseFloat(c.PostForm(name), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
