package actions

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// ReportContribution godoc
// swagger:route POST /users/{user_id}/contributions contributions report_contribution
// Report contribution
//
// Record an earning event for a user and propagate referral commissions
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
//	  201: ContributionRecord
//	  404: RequestErrorResp
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) ReportContribution(c *gin.Context) {
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
	kind := model.ContributionKind(c.PostForm("kind"))
	reference := c.PostForm("source_reference")

	record, err := actions.service.OnContributionEarned(userID, amount, kind, reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKind), errors.Is(err, service.ErrInvalidAmount):
			abortWithError(c, ValidationFailed, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			abortWithError(c, NotFound, "Unable to find specified user")
		default:
			log.Error().Err(err).
				Str("section", "actions").
				Str("action", "report_contribution").
				Uint64("user_id", userID).
				Msg("Unable to record contribution")
			abortWithError(c, ServerError, "Unable to record contribution")
		}
		return
	}
	c.JSON(Created, record.View())
}

// GetBalance godoc
// swagger:route GET /users/{user_id}/balance contributions get_balance
// Get balance
//
// Get the cumulative, consumed and remaining contribution of a user
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: BalanceView
//	  404: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) GetBalance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	balance, err := actions.service.Balance(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, NotFound, "Unable to find specified user")
			return
		}
		abortWithError(c, ServerError, "Unable to load balance")
		return
	}
	c.JSON(OK, balance)
}

// GetContributionHistory godoc
// swagger:route GET /users/{user_id}/contributions contributions get_contribution_history
// Contribution history
//
// List a user's contribution ledger, newest first
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: ContributionHistoryResponse
//	  404: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) GetContributionHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	page, limit := getPagination(c)
	history, err := actions.service.ContributionHistory(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load contribution history")
		return
	}
	c.JSON(OK, history)
}

// GetCommissionHistory godoc
// swagger:route GET /users/{user_id}/commissions contributions get_commission_history
// Commission history
//
// List the referral payouts a user received from their downline
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: CommissionHistoryResponse
//	  404: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) GetCommissionHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	page, limit := getPagination(c)
	history, err := actions.service.CommissionHistory(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load commission history")
		return
	}
	c.JSON(OK, history)
}
