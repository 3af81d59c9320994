package actions

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// Exchange godoc
// swagger:route POST /users/{user_id}/exchange exchange exchange_units
// Exchange units
//
// Debit units from the user's balance and issue the wallet credit for
// their currency value, with the optional lock period bonus
//
//	Consumes:
//	- application/x-www-form-urlencoded
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: ExchangeResult
//	  404: RequestErrorResp
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) Exchange(c *gin.Context) {
	log := getlog(c)
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	amount, ok := getPostedDecimal(c, "amount")
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid amount provided")
		return
	}
	lockPeriod := model.LockPeriod(c.PostForm("lock_period"))

	result, err := actions.service.ExchangeUnits(c.Request.Context(), userID, amount, lockPeriod)
	if err != nil {
		if result != nil {
			// units already left the balance; the wallet instruction is
			// re-sent during reconciliation, the exchange itself stands
			c.JSON(OK, result)
			return
		}
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			abortWithError(c, ValidationFailed, "Invalid amount provided")
		case errors.Is(err, service.ErrUnknownLockPeriod):
			abortWithError(c, ValidationFailed, "Unknown lock period")
		case errors.Is(err, service.ErrInsufficientBalance):
			abortWithError(c, ValidationFailed, "Insufficient contribution balance")
		case errors.Is(err, gorm.ErrRecordNotFound):
			abortWithError(c, NotFound, "Unable to find specified user")
		default:
			log.Error().Err(err).
				Str("section", "actions").
				Str("action", "exchange").
				Uint64("user_id", userID).
				Msg("Unable to exchange units")
			abortWithError(c, ServerError, "Unable to exchange units")
		}
		return
	}
	c.JSON(OK, result)
}
