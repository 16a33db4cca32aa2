package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			err := Init()

			Convey("Then Get returns a usable logger", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "analysis finished", String("context", "default"), Int("players", 11), Bool("short", false))

			Convey("Then the fields and caller are encoded", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"analysis finished"`)
				So(out, ShouldContainSubstring, `"players":11`)
				So(out, ShouldContainSubstring, `"source":"`)
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger", func() {
			Named("ingest").Warn(ctx, "duplicate match")

			Convey("Then the component is attached", func() {
				So(buf.String(), ShouldContainSubstring, `"component":"ingest"`)
			})
		})

		Convey("When the level filters a message", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(Init(), ShouldBeNil)
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
