package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

func TestTierRegistry_TierFor(t *testing.T) {
	registry := newTestService(t).TierRegistry()

	Convey("It should place a zero balance on the first tier", t, func() {
		tier := registry.TierFor(conv.NewDecimalWithPrecision())
		So(tier.Tier, ShouldEqual, model.PartnerTierNormalUser)
	})

	Convey("It should keep a user below the first threshold on the first tier", t, func() {
		tier := registry.TierFor(conv.NewDecimalFromFloat(49_999))
		So(tier.Tier, ShouldEqual, model.PartnerTierNormalUser)
	})

	Convey("It should promote exactly at the threshold", t, func() {
		tier := registry.TierFor(conv.NewDecimalFromFloat(50_000))
		So(tier.Tier, ShouldEqual, model.PartnerTierRegularPartner)

		tier = registry.TierFor(conv.NewDecimalFromFloat(100_000))
		So(tier.Tier, ShouldEqual, model.PartnerTierSeniorPartner)
	})

	Convey("It should cap at the highest tier", t, func() {
		tier := registry.TierFor(conv.NewDecimalFromFloat(1_000_000))
		So(tier.Tier, ShouldEqual, model.PartnerTierFoundingPartner)
	})
}

func TestTierRegistry_ConfigFor(t *testing.T) {
	registry := newTestService(t).TierRegistry()

	Convey("It should return the benefit package of a known tier", t, func() {
		cfg, err := registry.ConfigFor(model.PartnerTierSeniorPartner)
		So(err, ShouldBeNil)
		So(cfg.ReferralDepth, ShouldEqual, 3)
		So(cfg.SelfMultiplier.Cmp(conv.NewDecimalFromFloat(1.3)), ShouldEqual, 0)
	})

	Convey("It should fail on an unknown tier", t, func() {
		_, err := registry.ConfigFor(model.PartnerTier("platinum"))
		So(err, ShouldEqual, ErrUnknownTier)
	})

	Convey("Only partner tiers should carry a team bonus", t, func() {
		normal, err := registry.ConfigFor(model.PartnerTierNormalUser)
		So(err, ShouldBeNil)
		So(normal.HasTeamBonus(), ShouldBeFalse)

		founding, err := registry.ConfigFor(model.PartnerTierFoundingPartner)
		So(err, ShouldBeNil)
		So(founding.HasTeamBonus(), ShouldBeTrue)
	})
}

func TestNewTierRegistry_Validation(t *testing.T) {
	Convey("It should reject an unknown tier name", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "platinum", Threshold: 0, ReferralDepth: 1, SelfMultiplier: 1.0},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should reject a duplicate tier", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "normal_user", Threshold: 0, ReferralDepth: 1, SelfMultiplier: 1.0},
			{Tier: "normal_user", Threshold: 100, ReferralDepth: 1, SelfMultiplier: 1.0},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should reject non increasing thresholds", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "normal_user", Threshold: 0, ReferralDepth: 1, SelfMultiplier: 1.0},
			{Tier: "senior_partner", Threshold: 100, ReferralDepth: 3, SelfMultiplier: 1.3},
			{Tier: "regular_partner", Threshold: 100, ReferralDepth: 2, SelfMultiplier: 1.2},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should require the first tier to start at zero", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "normal_user", Threshold: 10, ReferralDepth: 1, SelfMultiplier: 1.0},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should reject a referral depth outside the chain limit", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "normal_user", Threshold: 0, ReferralDepth: 4, SelfMultiplier: 1.0},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should reject a self multiplier below one", t, func() {
		_, err := NewTierRegistry([]*config.TierEntry{
			{Tier: "normal_user", Threshold: 0, ReferralDepth: 1, SelfMultiplier: 0.5},
		})
		So(err, ShouldNotBeNil)
	})

	Convey("It should fall back to the default table on an empty list", t, func() {
		registry, err := NewTierRegistry(nil)
		So(err, ShouldBeNil)
		So(len(registry.Tiers()), ShouldEqual, 4)
	})
}
