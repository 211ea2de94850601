package where

import (
	"path/filepath"
	"testing"

	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		for name, fn := range map[string]func() string{
			"Config":         Config,
			"Cache":          Cache,
			"Logs":           Logs,
			"Sequences":      Sequences,
			"Scripts":        Scripts,
			"ActionScripts":  ActionScripts,
			"TrailerScripts": TrailerScripts,
			"URLCache":       URLCache,
			"Temp":           Temp,
		} {
			Convey(name+"() creates its directory", func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}

		Convey("Content() honors content.path", func() {
			viper.Set(key.ContentPath, "/media/preshow")
			defer viper.Set(key.ContentPath, "")
			So(Content(), ShouldEqual, "/media/preshow")
		})

		Convey("Content() defaults inside the config directory", func() {
			viper.Set(key.ContentPath, "")
			So(Content(), ShouldEqual, filepath.Join(Config(), "content"))
		})

		Convey("Database() defaults to the cache directory", func() {
			viper.Set(key.CatalogDatabase, "")
			So(Database(), ShouldEqual, filepath.Join(Cache(), "catalog.db"))
		})
	})
}
