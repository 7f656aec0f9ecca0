package persona

import (
	"fmt"
	"sort"
	"strings"

	"pomelo/internal/model"
)

// Render 把人格的系统提示词与请求上下文拼成最终指令
// 纯函数：同样的输入必须得到逐字节一致的输出。未设置的字段
// 不输出标签行。customData 按 key 排序，保证稳定
func Render(p *Persona, ctx *model.ChatContext) string {
	var b strings.Builder
	b.WriteString(p.SystemPrompt)

	if ctx == nil {
		return b.String()
	}

	b.WriteString("\n\nCURRENT CONTEXT:")

	if ctx.Subject != "" {
		fmt.Fprintf(&b, "\n- Subject: %s", ctx.Subject)
	}
	if ctx.UserLevel != "" {
		fmt.Fprintf(&b, "\n- User Level: %s", ctx.UserLevel)
	}
	if ctx.CurrentTopic != "" {
		fmt.Fprintf(&b, "\n- Current Topic: %s", ctx.CurrentTopic)
	}

	if ctx.Problem != nil {
		fmt.Fprintf(&b, "\n- Problem: %q (%s)", ctx.Problem.Title, ctx.Problem.Difficulty)
		fmt.Fprintf(&b, "\n- Problem Description: %s", ctx.Problem.Description)
		if len(ctx.Problem.ResearchTopics) > 0 {
			fmt.Fprintf(&b, "\n- Research Topics: %s", strings.Join(ctx.Problem.ResearchTopics, ", "))
		}
	}

	if ctx.UserCode != "" {
		fmt.Fprintf(&b, "\n\nUSER'S CURRENT CODE:\n```\n%s\n```", ctx.UserCode)
	}

	if ctx.HintsUsed > 0 {
		fmt.Fprintf(&b, "\n- Hints Used: %d", ctx.HintsUsed)
	}

	if len(ctx.CustomData) > 0 {
		b.WriteString("\n\nADDITIONAL CONTEXT:")
		keys := make([]string, 0, len(ctx.CustomData))
		for k := range ctx.CustomData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, ctx.CustomData[k])
		}
	}

	return b.String()
}
