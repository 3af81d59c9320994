package actions

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// QuoteResponse is the currency value of a unit amount before exchanging
type QuoteResponse struct {
	Amount     string           `json:"amount"`
	UnitValue  string           `json:"unit_value"`
	Currency   string           `json:"currency"`
	LockPeriod model.LockPeriod `json:"lock_period,omitempty"`
	Instant    string           `json:"instant"`
	Bonus      string           `json:"bonus"`
	Total      string           `json:"total"`
}

// QuoteValue godoc
// swagger:route GET /value/quote value quote_value
// Quote value
//
// Convert a unit amount to its currency value, with the optional lock
// period bonus applied
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: QuoteResponse
//	  422: RequestErrorResp
func (actions *Actions) QuoteValue(c *gin.Context) {
	amount, ok := conv.NewDecimalFromString(c.Query("amount"))
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid amount provided")
		return
	}
	lockPeriod := model.LockPeriod(c.Query("lock_period"))

	value := actions.service.ValueModel()
	breakdown, err := value.TotalValue(amount, lockPeriod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			abortWithError(c, ValidationFailed, "Invalid amount provided")
		case errors.Is(err, service.ErrUnknownLockPeriod):
			abortWithError(c, ValidationFailed, "Unknown lock period")
		default:
			abortWithError(c, ServerError, "Unable to quote value")
		}
		return
	}

	c.JSON(OK, QuoteResponse{
		Amount:     amount.String(),
		UnitValue:  value.UnitValue().String(),
		Currency:   value.Currency(),
		LockPeriod: lockPeriod,
		Instant:    breakdown.Instant.String(),
		Bonus:      breakdown.Bonus.String(),
		Total:      breakdown.Total.String(),
	})
}
