package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

func TestValueModel_InstantValue(t *testing.T) {
	value := newTestService(t).ValueModel()

	Convey("It should convert units to currency at the fixed rate", t, func() {
		units := conv.NewDecimalFromFloat(1000)
		instant, err := value.InstantValue(units)
		So(err, ShouldBeNil)
		So(instant.Cmp(conv.NewDecimalFromFloat(100)), ShouldEqual, 0)
	})

	Convey("It should convert zero units to zero currency", t, func() {
		instant, err := value.InstantValue(conv.NewDecimalWithPrecision())
		So(err, ShouldBeNil)
		So(instant.Sign(), ShouldEqual, 0)
	})

	Convey("It should reject a nil amount", t, func() {
		_, err := value.InstantValue(nil)
		So(err, ShouldEqual, ErrInvalidAmount)
	})

	Convey("It should reject a NaN amount", t, func() {
		a := conv.NewDecimalWithPrecision().SetNaN(true)
		_, err := value.InstantValue(a)
		So(err, ShouldEqual, ErrInvalidAmount)
	})

	Convey("It should reject a negative amount", t, func() {
		_, err := value.InstantValue(conv.NewDecimalFromFloat(-1))
		So(err, ShouldEqual, ErrInvalidAmount)
	})
}

func TestValueModel_TotalValue(t *testing.T) {
	value := newTestService(t).ValueModel()
	units := conv.NewDecimalFromFloat(1000)

	Convey("It should add no bonus without a lock period", t, func() {
		breakdown, err := value.TotalValue(units, "")
		So(err, ShouldBeNil)
		So(breakdown.Instant.Cmp(conv.NewDecimalFromFloat(100)), ShouldEqual, 0)
		So(breakdown.Bonus.Sign(), ShouldEqual, 0)
		So(breakdown.Total.Cmp(breakdown.Instant), ShouldEqual, 0)
	})

	Convey("It should apply the one year lock bonus", t, func() {
		breakdown, err := value.TotalValue(units, model.LockPeriodYear1)
		So(err, ShouldBeNil)
		So(breakdown.Bonus.Cmp(conv.NewDecimalFromFloat(20)), ShouldEqual, 0)
		So(breakdown.Total.Cmp(conv.NewDecimalFromFloat(120)), ShouldEqual, 0)
	})

	Convey("It should double the value on a three year lock", t, func() {
		breakdown, err := value.TotalValue(units, model.LockPeriodYear3)
		So(err, ShouldBeNil)
		So(breakdown.Total.Cmp(conv.NewDecimalFromFloat(200)), ShouldEqual, 0)
	})

	Convey("It should fail on an unknown lock period", t, func() {
		_, err := value.TotalValue(units, model.LockPeriod("year5"))
		So(err, ShouldEqual, ErrUnknownLockPeriod)
	})
}
