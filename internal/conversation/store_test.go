package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Store 维护每用户的有界对话集合", t, func() {
		Convey("首条消息创建对话，后续追加", func() {
			s := NewStore(100)
			s.Append("conv-1", "alice", "hello", "hi there", nil)
			s.Append("conv-1", "alice", "how are you", "fine", nil)

			conv, err := s.Get("conv-1")
			So(err, ShouldBeNil)
			So(conv.UserID, ShouldEqual, "alice")
			So(conv.Messages, ShouldHaveLength, 2)
			So(conv.Messages[0].Message, ShouldEqual, "hello")
			So(conv.Messages[0].Response, ShouldEqual, "hi there")
			So(conv.Messages[1].Message, ShouldEqual, "how are you")
			So(conv.StartedAt, ShouldHappenOnOrBefore, conv.LastMessageAt)
		})

		Convey("追加保持到达顺序，已写入的轮次不被改动", func() {
			s := NewStore(100)
			for i := 0; i < 20; i++ {
				s.Append("conv-1", "alice", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), nil)
			}

			conv, err := s.Get("conv-1")
			So(err, ShouldBeNil)
			for i, turn := range conv.Messages {
				So(turn.Message, ShouldEqual, fmt.Sprintf("q%d", i))
				So(turn.Response, ShouldEqual, fmt.Sprintf("a%d", i))
			}
		})

		Convey("Get 返回快照，改动不影响内部状态", func() {
			s := NewStore(100)
			s.Append("conv-1", "alice", "hello", "hi", nil)

			conv, _ := s.Get("conv-1")
			conv.Messages[0].Response = "tampered"

			again, _ := s.Get("conv-1")
			So(again.Messages[0].Response, ShouldEqual, "hi")
		})

		Convey("未知对话返回 ErrNotFound", func() {
			s := NewStore(100)
			_, err := s.Get("missing")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("ListByUser 按最后消息时间倒序", func() {
			s := NewStore(100)
			times := []time.Time{
				time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
			}
			i := 0
			s.now = func() time.Time { t := times[i]; i++; return t }

			s.Append("conv-a", "alice", "m", "r", nil)
			s.Append("conv-b", "alice", "m", "r", nil)
			s.Append("conv-c", "alice", "m", "r", nil)

			convs := s.ListByUser("alice")
			So(convs, ShouldHaveLength, 3)
			So(convs[0].ID, ShouldEqual, "conv-b")
			So(convs[1].ID, ShouldEqual, "conv-c")
			So(convs[2].ID, ShouldEqual, "conv-a")
		})

		Convey("超过上限时整段淘汰最旧的对话", func() {
			s := NewStore(3)
			base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
			tick := 0
			s.now = func() time.Time { t := base.Add(time.Duration(tick) * time.Minute); tick++; return t }

			for i := 0; i < 5; i++ {
				s.Append(fmt.Sprintf("conv-%d", i), "alice", "m", "r", nil)
			}

			convs := s.ListByUser("alice")
			So(convs, ShouldHaveLength, 3)

			_, err := s.Get("conv-0")
			So(err, ShouldEqual, ErrNotFound)
			_, err = s.Get("conv-1")
			So(err, ShouldEqual, ErrNotFound)

			// 留下来的对话消息完整，不是截断
			conv, err := s.Get("conv-4")
			So(err, ShouldBeNil)
			So(conv.Messages, ShouldHaveLength, 1)
		})

		Convey("Delete 删除整个对话", func() {
			s := NewStore(100)
			s.Append("conv-1", "alice", "m", "r", nil)

			So(s.Delete("conv-1"), ShouldBeTrue)
			So(s.Delete("conv-1"), ShouldBeFalse)

			_, err := s.Get("conv-1")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Stats 汇总对话/用户/消息数", func() {
			s := NewStore(100)
			s.Append("conv-1", "alice", "m", "r", nil)
			s.Append("conv-1", "alice", "m", "r", nil)
			s.Append("conv-2", "bob", "m", "r", nil)

			st := s.Stats()
			So(st.Conversations, ShouldEqual, 2)
			So(st.Users, ShouldEqual, 2)
			So(st.Messages, ShouldEqual, 3)
		})

		Convey("不同用户并发追加互不干扰", func() {
			s := NewStore(100)

			var wg sync.WaitGroup
			for u := 0; u < 8; u++ {
				wg.Add(1)
				go func(u int) {
					defer wg.Done()
					user := fmt.Sprintf("user-%d", u)
					for i := 0; i < 25; i++ {
						s.Append("conv-"+user, user, fmt.Sprintf("q%d", i), "a", nil)
					}
				}(u)
			}
			wg.Wait()

			for u := 0; u < 8; u++ {
				user := fmt.Sprintf("user-%d", u)
				conv, err := s.Get("conv-" + user)
				So(err, ShouldBeNil)
				So(conv.Messages, ShouldHaveLength, 25)
				for i, turn := range conv.Messages {
					So(turn.Message, ShouldEqual, fmt.Sprintf("q%d", i))
				}
			}
		})
	})
}
