package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/crease/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is new", func() {
			seen := d.SeenAndRecord(ctx, "2023/IPL/12")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key repeats", func() {
			d.SeenAndRecord(ctx, "2023/IPL/12")
			seen := d.SeenAndRecord(ctx, "2023/IPL/12")

			Convey("Then it is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is forgotten", func() {
			d.SeenAndRecord(ctx, "m1")
			d.Forget(ctx, "m1")

			Convey("Then it is accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "m1"), ShouldBeFalse)
			})
		})

		Convey("When forgetting an unknown key", func() {
			So(func() { d.Forget(ctx, "nope") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When more keys than the bound are recorded", func() {
			for _, k := range []string{"a", "b", "c", "d"} {
				d.SeenAndRecord(ctx, k)
			}

			Convey("Then the oldest key is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When a forgotten key is recorded again before its old slot is reused", func() {
			d.SeenAndRecord(ctx, "a")
			d.Forget(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "a")
			// reuses the stale slot of the first "a"
			d.SeenAndRecord(ctx, "c")

			Convey("Then the live key survives the stale eviction", func() {
				So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("m%d", i))
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "m0"), ShouldBeTrue)
		})
	})

	Convey("Given concurrent callers racing on the same keys", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("m%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each key is new exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
