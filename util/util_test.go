package util

import (
	"testing"

	"github.com/preshow-cli/preshow/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/file.txt"), ShouldEqual, "file")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestSize(t *testing.T) {
	Convey("Given a directory with two files", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.WriteFile("/cache/a.json", make([]byte, 100), 0o644), ShouldBeNil)
		So(fs.WriteFile("/cache/sub/b.json", make([]byte, 24), 0o644), ShouldBeNil)

		Convey("Size adds up every file below it", func() {
			n, err := Size("/cache")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 124)
		})

		Convey("A missing directory is empty", func() {
			n, err := Size("/nowhere")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})
	})
}

func TestBytes(t *testing.T) {
	Convey("Bytes", t, func() {
		So(Bytes(512), ShouldEqual, "512 B")
		So(Bytes(1536), ShouldEqual, "1.5 KiB")
		So(Bytes(20*1024*1024), ShouldEqual, "20.0 MiB")
	})
}

func TestHasExtension(t *testing.T) {
	Convey("HasExtension", t, func() {
		So(HasExtension("Trivia/a_q.JPG", ImageExtensions), ShouldBeTrue)
		So(HasExtension("Music/song.flac", ImageExtensions), ShouldBeFalse)
		So(HasExtension("Trailers/x.mkv", VideoExtensions), ShouldBeTrue)
	})
}
