package actions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// LinkReferral godoc
// swagger:route POST /users/{user_id}/referrer referrals link_referral
// Link referral
//
// Bind a user to their referrer. A user can be referred at most once and
// the link is permanent.
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
//	  201: ReferralEdge
//	  404: RequestErrorResp
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) LinkReferral(c *gin.Context) {
	log := getlog(c)
	refereeID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	referrerID, err := strconv.ParseUint(c.PostForm("referrer_id"), 10, 64)
	if err != nil {
		abortWithError(c, ValidationFailed, "Invalid referrer provided")
		return
	}

	edge, err := actions.service.LinkReferral(referrerID, refereeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfReferral),
			errors.Is(err, service.ErrCyclicReferral),
			errors.Is(err, service.ErrAlreadyReferred):
			abortWithError(c, ValidationFailed, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			abortWithError(c, NotFound, "Unable to find specified user")
		default:
			log.Error().Err(err).
				Str("section", "actions").
				Str("action", "link_referral").
				Uint64("referrer_id", referrerID).
				Uint64("referee_id", refereeID).
				Msg("Unable to link referral")
			abortWithError(c, ServerError, "Unable to link referral")
		}
		return
	}
	c.JSON(Created, edge)
}

// GetReferrals godoc
// swagger:route GET /users/{user_id}/referrals referrals get_referrals
// List referrals
//
// List the users invited directly by this user with the earnings each one
// generated
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: ReferralListResponse
//	  404: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) GetReferrals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	page, limit := getPagination(c)
	referrals, err := actions.service.GetReferrals(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load referrals")
		return
	}
	c.JSON(OK, referrals)
}

// GetTopInviters godoc
// swagger:route GET /referrals/top referrals get_top_inviters
// Top inviters
//
// List the users with the most direct referrals
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: TopInviters
//	  500: RequestErrorResp
func (actions *Actions) GetTopInviters(c *gin.Context) {
	inviters, err := actions.service.GetTopInviters()
	if err != nil {
		abortWithError(c, ServerError, "Unable to load top inviters")
		return
	}
	c.JSON(OK, inviters)
}
