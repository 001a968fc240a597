package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

func buildDraftPrompt(p model.Params, material string) string {
	opener := "the AI character speaks first"
	if p.Mode == model.ModeUserFirst {
		opener = "the user character speaks first"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional dialogue author. Create a natural, flowing dialogue from this brief:

Context: %s
Goal: %s
Opening: %s
Language: %s
Difficulty: %s (CEFR level)
Turns: %d (one turn = each party speaks once)
`, p.Context, p.Goal, opener, p.Language, p.Difficulty, p.NumTurns)

	if material != "" {
		fmt.Fprintf(&b, "\nBackground material to draw on:\n%s\n", truncateRunes(material, 4000))
	}

	b.WriteString(`
Return a single JSON object with this exact structure (no markdown, no explanation):
{"original_text": "the full dialogue", "key_points": ["plot beat 1", "plot beat 2"], "intentions": ["implicit goal 1", "implicit goal 2"]}

Rules:
- original_text: the complete dialogue, one line per utterance, speakers clearly labeled
- key_points: the plot beats the dialogue hinges on, in order
- intentions: the implicit goals of each party`)

	return b.String()
}

// buildStylePromptEN is the general-purpose adaptation template.
func buildStylePromptEN(d model.DialogueDraft, userTraits, aiTraits string) string {
	return fmt.Sprintf(`As a professional dialogue stylist AI, your task is to rewrite the original dialogue based on the given character traits while maintaining the same plot points and intentions of the original dialogue.

## Original Dialogue Information
Original dialogue text:
%s

Key points:
%s

Dialogue intentions:
%s

## Character Traits
User character traits: %s
AI character traits: %s

Please follow these requirements:
1. Maintain all key points and intentions from the original dialogue
2. Adjust only the dialogue style, tone, and phrasing according to the character traits
3. Keep the format of the dialogue with clear speaker distinctions
4. IMPORTANT: Keep the output in the SAME LANGUAGE as the original dialogue
5. Only return the rewritten dialogue text without additional explanations`,
		d.Text, bulletList(d.KeyPoints), bulletList(d.Intentions), userTraits, aiTraits)
}

// buildStylePromptZH is the Chinese-locale adaptation template, selected when
// the draft contains CJK ideographs and no explicit language hint is given.
func buildStylePromptZH(d model.DialogueDraft, userTraits, aiTraits string) string {
	return fmt.Sprintf(`作为一个专业的对话风格改编 AI，你的任务是将原始对话根据给定的角色特质进行改编，同时保持原始对话的情节和意图不变。

## 原始对话信息
对话原文：
%s

关键节点：
%s

对话意图：
%s

## 角色特质
用户角色特质: %s
AI 角色特质: %s

请按照以下要求进行改编：
1. 保持原始对话的全部关键节点和意图
2. 根据用户和 AI 的角色特质调整对话风格、语调和描述方式
3. 请保持对话的格式，包括清晰的说话人区分
4. 重要提示：请保持输出语言与原始对话相同（中文）
5. 请只返回改编后的对话文本，不需要额外的解释`,
		d.Text, bulletList(d.KeyPoints), bulletList(d.Intentions), userTraits, aiTraits)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (none)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

// truncateRunes truncates s to maxRunes runes (Unicode-safe).
func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "\n... [truncated]"
}
