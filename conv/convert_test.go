package conv_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
)

func TestNewDecimalFromString(t *testing.T) {
	Convey("Given a string representation of an amount", t, func() {
		Convey("I should be able to parse valid numbers", func() {
			dec, ok := conv.NewDecimalFromString("150.5")
			So(ok, ShouldBeTrue)
			So(dec.String(), ShouldEqual, "150.5")

			dec, ok = conv.NewDecimalFromString("-20")
			So(ok, ShouldBeTrue)
			So(dec.Sign(), ShouldEqual, -1)
		})
		Convey("I should get a failure for junk input", func() {
			_, ok := conv.NewDecimalFromString("not-a-number")
			So(ok, ShouldBeFalse)
			_, ok = conv.NewDecimalFromString("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNeg(t *testing.T) {
	Convey("Given an amount", t, func() {
		amount := conv.NewDecimalFromFloat(12.5)
		neg := conv.Neg(amount)
		Convey("The negated copy should flip the sign and keep the original intact", func() {
			So(neg.Sign(), ShouldEqual, -1)
			So(amount.Sign(), ShouldEqual, 1)
			So(conv.NewDecimalWithPrecision().Add(amount, neg).Sign(), ShouldEqual, 0)
		})
	})
}

func TestCloneToPrecision(t *testing.T) {
	Convey("Given an amount with excess precision", t, func() {
		amount, _ := conv.NewDecimalFromString("1.123456789999")
		clone := conv.CloneToPrecision(amount)
		Convey("The clone should be quantized to eight decimals", func() {
			So(clone.String(), ShouldEqual, "1.12345678")
		})
	})
}
