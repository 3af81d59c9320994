package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

func TestPendingRewardTransitions(t *testing.T) {
	now := time.Now()

	Convey("Given a pending reward", t, func() {
		reward := model.NewPendingReward(42, model.PendingRewardType_Badge, "badge:42:7")

		Convey("The first grant should transition it to granted", func() {
			So(reward.MarkGranted(now), ShouldBeTrue)
			So(reward.Status, ShouldEqual, model.PendingRewardStatus_Granted)
			So(reward.GrantedAt, ShouldNotBeNil)
		})

		Convey("A repeated grant should be a no-op", func() {
			So(reward.MarkGranted(now), ShouldBeTrue)
			So(reward.MarkGranted(now.Add(time.Minute)), ShouldBeFalse)
			So(reward.GrantedAt.Equal(now), ShouldBeTrue)
		})

		Convey("Expiring a granted reward should be rejected", func() {
			So(reward.MarkGranted(now), ShouldBeTrue)
			So(reward.MarkExpired(), ShouldBeFalse)
			So(reward.Status, ShouldEqual, model.PendingRewardStatus_Granted)
		})

		Convey("Expiring a pending reward should work once", func() {
			So(reward.MarkExpired(), ShouldBeTrue)
			So(reward.MarkExpired(), ShouldBeFalse)
		})
	})
}

func TestContributionKindClassification(t *testing.T) {
	Convey("Every kind is classified exactly one way", t, func() {
		kinds := []model.ContributionKind{
			model.ContributionKind_TaskReward,
			model.ContributionKind_Project,
			model.ContributionKind_ReferralCommission,
			model.ContributionKind_TeamIncome,
			model.ContributionKind_Checkin,
			model.ContributionKind_AdminAdjustment,
			model.ContributionKind_Exchange,
		}
		for _, kind := range kinds {
			So(kind.IsValid(), ShouldBeTrue)
			So(kind.IsEarning() && kind.IsConsuming(), ShouldBeFalse)
		}
		So(model.ContributionKind("mystery").IsValid(), ShouldBeFalse)
		So(model.ContributionKind_Exchange.IsConsuming(), ShouldBeTrue)
		So(model.ContributionKind_AdminAdjustment.IsEarning(), ShouldBeFalse)
		So(model.ContributionKind_AdminAdjustment.IsConsuming(), ShouldBeFalse)
	})
}
