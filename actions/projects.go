package actions

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// CreateAssignment godoc
// swagger:route POST /users/{user_id}/assignments projects create_assignment
// Create assignment
//
// Open a project assignment with its difficulty and deadline
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
//	  201: ProjectAssignment
//	  404: RequestErrorResp
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) CreateAssignment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, NotFound, "Invalid user")
		return
	}
	projectRef := c.PostForm("project_ref")
	if projectRef == "" {
		abortWithError(c, ValidationFailed, "Project reference is required")
		return
	}
	difficulty, ok := getPostedFloat(c, "difficulty")
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid difficulty provided")
		return
	}
	deadline, err := time.Parse(time.RFC3339, c.PostForm("deadline"))
	if err != nil {
		abortWithError(c, ValidationFailed, "Invalid deadline provided")
		return
	}

	assignment, err := actions.service.CreateAssignment(userID, projectRef, difficulty, deadline)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScoreInput) {
			abortWithError(c, ValidationFailed, "Difficulty out of range")
			return
		}
		abortWithError(c, ServerError, "Unable to create assignment")
		return
	}
	c.JSON(Created, assignment)
}

// CompleteAssignment godoc
// swagger:route PUT /assignments/{assignment_id}/complete projects complete_assignment
// Complete assignment
//
// Score a finished assignment and record the project contribution
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
//	  200: ContributionRecord
//	  404: RequestErrorResp
//	  422: RequestErrorResp
//	  500: RequestErrorResp
func (actions *Actions) CompleteAssignment(c *gin.Context) {
	log := getlog(c)
	assignmentID, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		abortWithError(c, NotFound, "Invalid assignment")
		return
	}
	quality, ok := getPostedFloat(c, "quality")
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid quality provided")
		return
	}
	participationRate, ok := getPostedFloat(c, "participation_rate")
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid participation rate provided")
		return
	}

	record, err := actions.service.CompleteAssignment(assignmentID, quality, participationRate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidScoreInput):
			abortWithError(c, ValidationFailed, "Score inputs out of range")
		case errors.Is(err, gorm.ErrRecordNotFound):
			abortWithError(c, NotFound, "Unable to find specified assignment")
		default:
			log.Error().Err(err).
				Str("section", "actions").
				Str("action", "complete_assignment").
				Uint64("assignment_id", assignmentID).
				Msg("Unable to complete assignment")
			abortWithError(c, ServerError, "Unable to complete assignment")
		}
		return
	}
	c.JSON(OK, record.View())
}
