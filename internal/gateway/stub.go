package gateway

import (
	"context"
	"strings"
)

// StubClient returns mock completion responses (for development/testing).
type StubClient struct{}

// Complete inspects the prompt for stage markers and returns a canned reply.
// The draft reply embeds its JSON object inside surrounding prose, the same
// shape real models tend to produce.
func (s *StubClient) Complete(_ context.Context, prompt string, _ ...ToolSpec) (*Result, error) {
	if strings.Contains(prompt, "对话风格改编") {
		return &Result{Text: "顾客：哇，这里的咖啡闻起来真香！\n店员：欢迎光临，要不要试试我们的手冲？\n顾客：好呀，顺便……能加你的微信吗？我想关注新品。\n店员：当然可以，扫这个码就行。"}, nil
	}

	if strings.Contains(prompt, "dialogue stylist") {
		return &Result{Text: "Customer: Oh wow, it smells amazing in here...\nBarista: Welcome in! Care to try our pour-over today?\nCustomer: Sure. And, um, could I... maybe get your contact? For the new menu updates, I mean.\nBarista: Of course! Here, scan this."}, nil
	}

	if strings.Contains(prompt, `"original_text"`) {
		return &Result{Text: `Here is the dialogue you asked for.

{
  "original_text": "A: Hi, is this seat taken?\nB: No, go ahead.\nA: Great coffee here, right?\nB: The best in town. I come every morning.\nA: Same! We should swap recommendations sometime. Here is my number.",
  "key_points": ["strangers meet at a cafe", "small talk about coffee", "contact details exchanged"],
  "intentions": ["A wants to make a new acquaintance", "B is open to conversation"]
}`}, nil
	}

	return &Result{Text: "{}"}, nil
}
