package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

func tierByName(t *testing.T, svc *Service, tier model.PartnerTier) *model.TierConfig {
	t.Helper()
	cfg, err := svc.TierRegistry().ConfigFor(tier)
	if err != nil {
		t.Fatalf("unknown tier %s: %v", tier, err)
	}
	return cfg
}

func TestBuildCommissionPlan_LevelRates(t *testing.T) {
	svc := newTestService(t)
	amount := conv.NewDecimalFromFloat(1000)

	Convey("It should pay the fixed per level rates down the chain", t, func() {
		ancestors := []ancestorTier{
			{userID: 11, level: model.ReferralLevel1, tier: tierByName(t, svc, model.PartnerTierSeniorPartner)},
			{userID: 12, level: model.ReferralLevel2, tier: tierByName(t, svc, model.PartnerTierSeniorPartner)},
			{userID: 13, level: model.ReferralLevel3, tier: tierByName(t, svc, model.PartnerTierSeniorPartner)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)

		levels := make([]commissionCredit, 0)
		for _, credit := range plan {
			if credit.kind == model.CommissionEntryKind_Level {
				levels = append(levels, credit)
			}
		}
		So(len(levels), ShouldEqual, 3)
		So(levels[0].amount.Cmp(conv.NewDecimalFromFloat(100)), ShouldEqual, 0)
		So(levels[1].amount.Cmp(conv.NewDecimalFromFloat(50)), ShouldEqual, 0)
		So(levels[2].amount.Cmp(conv.NewDecimalFromFloat(30)), ShouldEqual, 0)
		So(levels[0].contribution, ShouldEqual, model.ContributionKind_ReferralCommission)
	})

	Convey("It should produce an empty plan without ancestors", t, func() {
		plan := svc.buildCommissionPlan(amount, nil)
		So(len(plan), ShouldEqual, 0)
	})
}

func TestBuildCommissionPlan_DepthCutoff(t *testing.T) {
	svc := newTestService(t)
	amount := conv.NewDecimalFromFloat(1000)

	Convey("An ancestor past its own referral depth earns nothing", t, func() {
		// normal users reach only one level down
		ancestors := []ancestorTier{
			{userID: 21, level: model.ReferralLevel2, tier: tierByName(t, svc, model.PartnerTierNormalUser)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)
		So(len(plan), ShouldEqual, 0)
	})

	Convey("A regular partner reaches two levels but not a third", t, func() {
		regular := tierByName(t, svc, model.PartnerTierRegularPartner)
		ancestors := []ancestorTier{
			{userID: 31, level: model.ReferralLevel2, tier: regular},
			{userID: 32, level: model.ReferralLevel3, tier: regular},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)

		levels := make([]commissionCredit, 0)
		for _, credit := range plan {
			if credit.kind == model.CommissionEntryKind_Level {
				levels = append(levels, credit)
			}
		}
		So(len(levels), ShouldEqual, 1)
		So(levels[0].beneficiaryID, ShouldEqual, uint64(31))
	})

	Convey("The cutoff is hard: no rate fallback for a shallower level", t, func() {
		// a level 3 ancestor with depth 2 gets nothing, not the L2 rate
		ancestors := []ancestorTier{
			{userID: 41, level: model.ReferralLevel3, tier: tierByName(t, svc, model.PartnerTierRegularPartner)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)
		So(len(plan), ShouldEqual, 0)
	})
}

func TestBuildCommissionPlan_TeamBonus(t *testing.T) {
	svc := newTestService(t)
	amount := conv.NewDecimalFromFloat(1000)

	Convey("The team bonus goes to the nearest qualifying ancestor only", t, func() {
		ancestors := []ancestorTier{
			{userID: 51, level: model.ReferralLevel1, tier: tierByName(t, svc, model.PartnerTierNormalUser)},
			{userID: 52, level: model.ReferralLevel2, tier: tierByName(t, svc, model.PartnerTierRegularPartner)},
			{userID: 53, level: model.ReferralLevel3, tier: tierByName(t, svc, model.PartnerTierFoundingPartner)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)

		bonuses := make([]commissionCredit, 0)
		for _, credit := range plan {
			if credit.kind == model.CommissionEntryKind_TeamBonus {
				bonuses = append(bonuses, credit)
			}
		}
		So(len(bonuses), ShouldEqual, 1)
		So(bonuses[0].beneficiaryID, ShouldEqual, uint64(52))
		So(bonuses[0].contribution, ShouldEqual, model.ContributionKind_TeamIncome)
		// regular partner team bonus rate is 10%
		So(bonuses[0].amount.Cmp(conv.NewDecimalFromFloat(100)), ShouldEqual, 0)

		// the bonus is planned right after its ancestor's level credit,
		// keeping the plan in ascending level order
		So(len(plan), ShouldEqual, 4)
		So(plan[1].beneficiaryID, ShouldEqual, uint64(52))
		So(plan[1].kind, ShouldEqual, model.CommissionEntryKind_Level)
		So(plan[2].beneficiaryID, ShouldEqual, uint64(52))
		So(plan[2].kind, ShouldEqual, model.CommissionEntryKind_TeamBonus)
		So(plan[3].beneficiaryID, ShouldEqual, uint64(53))
		So(plan[3].kind, ShouldEqual, model.CommissionEntryKind_Level)
	})

	Convey("The team bonus stacks on top of the level commission", t, func() {
		ancestors := []ancestorTier{
			{userID: 61, level: model.ReferralLevel1, tier: tierByName(t, svc, model.PartnerTierFoundingPartner)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)
		So(len(plan), ShouldEqual, 2)
		So(plan[0].kind, ShouldEqual, model.CommissionEntryKind_Level)
		So(plan[0].amount.Cmp(conv.NewDecimalFromFloat(100)), ShouldEqual, 0)
		So(plan[1].kind, ShouldEqual, model.CommissionEntryKind_TeamBonus)
		So(plan[1].amount.Cmp(conv.NewDecimalFromFloat(200)), ShouldEqual, 0)
	})

	Convey("No team bonus is paid when no ancestor qualifies", t, func() {
		ancestors := []ancestorTier{
			{userID: 71, level: model.ReferralLevel1, tier: tierByName(t, svc, model.PartnerTierNormalUser)},
		}
		plan := svc.buildCommissionPlan(amount, ancestors)
		So(len(plan), ShouldEqual, 1)
		So(plan[0].kind, ShouldEqual, model.CommissionEntryKind_Level)
	})
}
