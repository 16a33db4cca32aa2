package types_test

import (
	"testing"

	types "github.com/okian/crease/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAssignRanks(t *testing.T) {
	Convey("Given entries sorted by score", t, func() {
		entries := []types.Entry{
			{Player: "a", Score: 0.9},
			{Player: "b", Score: 0.7},
			{Player: "c", Score: 0.7},
			{Player: "d", Score: 0.2},
		}

		Convey("When ranks are assigned", func() {
			types.AssignRanks(entries)

			Convey("Then ties share a rank and ranks stay consecutive", func() {
				ranks := make([]int, len(entries))
				for i, e := range entries {
					ranks[i] = e.Rank
				}
				So(ranks, ShouldResemble, []int{1, 2, 2, 3})
			})
		})
	})

	Convey("Given no entries", t, func() {
		So(func() { types.AssignRanks(nil) }, ShouldNotPanic)
	})

	Convey("Given entries that all score zero", t, func() {
		entries := []types.Entry{{Player: "a"}, {Player: "b"}}
		types.AssignRanks(entries)
		So(entries[0].Rank, ShouldEqual, 1)
		So(entries[1].Rank, ShouldEqual, 1)
	})
}
