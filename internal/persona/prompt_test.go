package persona

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/model"
)

func TestRender(t *testing.T) {
	Convey("Render 能确定性地拼装上下文提示词", t, func() {
		p := &Persona{
			ID:           "tutor",
			SystemPrompt: "You are a tutor.",
		}

		Convey("无上下文时只输出系统提示词", func() {
			got := Render(p, nil)
			So(got, ShouldEqual, "You are a tutor.")
			So(got, ShouldNotContainSubstring, "CURRENT CONTEXT")
		})

		Convey("已设置的字段按固定顺序输出", func() {
			got := Render(p, &model.ChatContext{
				Subject:      "Algorithms",
				UserLevel:    "beginner",
				CurrentTopic: "binary search",
			})
			So(got, ShouldContainSubstring, "CURRENT CONTEXT:")
			So(got, ShouldContainSubstring, "- Subject: Algorithms")
			So(got, ShouldContainSubstring, "- User Level: beginner")
			So(got, ShouldContainSubstring, "- Current Topic: binary search")

			subjectIdx := strings.Index(got, "- Subject:")
			levelIdx := strings.Index(got, "- User Level:")
			topicIdx := strings.Index(got, "- Current Topic:")
			So(subjectIdx, ShouldBeLessThan, levelIdx)
			So(levelIdx, ShouldBeLessThan, topicIdx)
		})

		Convey("未设置的字段不输出标签行", func() {
			got := Render(p, &model.ChatContext{Subject: "Math"})
			So(got, ShouldNotContainSubstring, "User Level")
			So(got, ShouldNotContainSubstring, "Current Topic")
			So(got, ShouldNotContainSubstring, "Hints Used")
			So(got, ShouldNotContainSubstring, "ADDITIONAL CONTEXT")
		})

		Convey("同样的输入两次渲染逐字节一致", func() {
			ctx := &model.ChatContext{
				Subject:   "Go",
				UserLevel: "advanced",
				UserCode:  "func main() {}",
				HintsUsed: 2,
				CustomData: map[string]string{
					"sessionGoal": "refactor",
					"deadline":    "friday",
					"mood":        "curious",
				},
			}
			So(Render(p, ctx), ShouldEqual, Render(p, ctx))
		})

		Convey("题目上下文带描述和研究方向", func() {
			got := Render(p, &model.ChatContext{
				Problem: &model.ProblemContext{
					Title:          "Two Sum",
					Description:    "Find two numbers that add up to target.",
					Difficulty:     "easy",
					ResearchTopics: []string{"hash maps", "arrays"},
				},
			})
			So(got, ShouldContainSubstring, `- Problem: "Two Sum" (easy)`)
			So(got, ShouldContainSubstring, "- Problem Description: Find two numbers that add up to target.")
			So(got, ShouldContainSubstring, "- Research Topics: hash maps, arrays")
		})

		Convey("用户代码用代码块包裹原样输出", func() {
			got := Render(p, &model.ChatContext{UserCode: "x := 1\ny := 2"})
			So(got, ShouldContainSubstring, "USER'S CURRENT CODE:\n```\nx := 1\ny := 2\n```")
		})

		Convey("customData 按 key 排序输出", func() {
			got := Render(p, &model.ChatContext{
				CustomData: map[string]string{"zebra": "1", "apple": "2"},
			})
			So(got, ShouldContainSubstring, "ADDITIONAL CONTEXT:")
			So(strings.Index(got, "- apple: 2"), ShouldBeLessThan, strings.Index(got, "- zebra: 1"))
		})

		Convey("hintsUsed 为零时不输出", func() {
			got := Render(p, &model.ChatContext{Subject: "Go", HintsUsed: 0})
			So(got, ShouldNotContainSubstring, "Hints Used")

			got = Render(p, &model.ChatContext{HintsUsed: 3})
			So(got, ShouldContainSubstring, "- Hints Used: 3")
		})
	})
}
