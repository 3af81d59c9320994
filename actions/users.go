package actions

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// Register godoc
// swagger:route POST /users users register_user
// Register user
//
// Create a user, optionally linked to a referrer by code, and queue the
// welcome reward
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
//	  201: User
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) Register(c *gin.Context) {
	log := getlog(c)
	email := c.PostForm("email")
	nickname := c.PostForm("nickname")
	referrerCode := c.PostForm("referral_code")
	if email == "" {
		abortWithError(c, ValidationFailed, "Email is required")
		return
	}

	user, err := actions.service.OnUserRegistered(email, nickname, referrerCode)
	if err != nil {
		log.Error().Err(err).
			Str("section", "actions").
			Str("action", "register").
			Str("email", email).
			Msg("Unable to register user")
		abortWithError(c, ServerError, "Unable to register user")
		return
	}
	c.JSON(Created, user)
}

// Login godoc
// swagger:route POST /users/{user_id}/login users login_user
// Login
//
// Record a login: updates the streak, wakes a dormant account and queues
// any streak badge crossed
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: User
//	  404: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) Login(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	user, err := actions.service.OnUserLogin(userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, NotFound, "Unable to find specified user")
			return
		}
		abortWithError(c, ServerError, "Unable to record login")
		return
	}
	c.JSON(OK, user)
}

// Checkin godoc
// swagger:route POST /users/{user_id}/checkin users checkin_user
// Daily check-in
//
// Record the daily check-in contribution, once per calendar day
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  201: ContributionRecord
//	  404: RequestErrorResp
//	  409: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) Checkin(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	record, err := actions.service.Checkin(userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, NotFound, "Unable to find specified user")
			return
		}
		abortWithError(c, ServerError, "Unable to record check-in")
		return
	}
	if record == nil {
		c.JSON(OK, map[string]string{"message": "Already checked in today"})
		return
	}
	c.JSON(Created, record.View())
}

// GetTiers godoc
// swagger:route GET /tiers users get_tiers
// Partner tiers
//
// List the partner tier table with thresholds and benefit rates
//
//	Produces:
//	- application/json
//
//	Schemes: http, https
//
//	Responses:
//	  200: TierViews
func (actions *Actions) GetTiers(c *gin.Context) {
	tiers := actions.service.TierRegistry().Tiers()
	views := make([]model.TierView, 0, len(tiers))
	for _, tier := range tiers {
		views = append(views, tier.View())
	}
	c.JSON(OK, views)
}
