package icon

import (
	"testing"

	"github.com/preshow-cli/preshow/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	defer viper.Set(key.IconsVariant, plain)

	Convey("Every icon renders in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for i := Fail; i <= Warn; i++ {
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("Plain icons are ASCII", t, func() {
		viper.Set(key.IconsVariant, plain)
		for i := Fail; i <= Warn; i++ {
			for _, r := range Get(i) {
				So(r, ShouldBeLessThan, 128)
			}
		}
	})

	Convey("An unknown variant renders nothing", t, func() {
		viper.Set(key.IconsVariant, "")
		So(Get(Film), ShouldBeEmpty)
	})
}
