package service

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// OnUserRegistered creates the user, links the referral edge when an invite
// code resolves to a referrer, and queues the welcome reward. Registration
// itself never fails because of a bad invite code.
func (service *Service) OnUserRegistered(email, nickname, referrerCode string) (*model.User, error) {
	var referrerID *uint64
	if referrerCode != "" {
		referrer, err := service.repo.GetUserByReferralCode(referrerCode)
		if err == nil && referrer != nil {
			referrerID = &referrer.ID
		} else {
			log.Warn().
				Str("section", "service").
				Str("action", "register").
				Str("referral_code", referrerCode).
				Msg("Unknown invite code, registering without referrer")
		}
	}

	user := model.NewUser(email, nickname, newReferralCode(), nil)
	if err := service.repo.Create(user); err != nil {
		return nil, err
	}

	if referrerID != nil {
		if _, err := service.LinkReferral(*referrerID, user.ID); err != nil {
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "register").
				Uint64("user_id", user.ID).
				Uint64("referrer_id", *referrerID).
				Msg("Unable to link referral edge")
		} else {
			user.ReferrerID = referrerID
		}
	}

	welcome := model.NewPendingReward(user.ID, model.PendingRewardType_NewUser,
		fmt.Sprintf("new_user:%d", user.ID))
	if err := service.repo.Create(welcome); err != nil && !isUniqueViolation(err) {
		return nil, err
	}

	return user, nil
}

func newReferralCode() string {
	return strings.ToUpper(xid.New().String())
}
