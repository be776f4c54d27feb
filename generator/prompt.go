package generator

// SystemInstruction fixes the writer persona and the JSON-only output contract.
const SystemInstruction = `You are a senior brochure writer for an estate agency. Given detailed room/property input, return content in this JSON structure:
{
  "headline": "[A short, 2–6 word headline]",
  "summary": "[200–300 word summary in a professional, emotive, descriptive tone]",
  "bulletPoints": ["Feature: Description", "Feature: Description", ...]
}

Write one bullet point per meaningful feature group. Use proper formatting, never return plain text. Always include bulletPoints.
Return the JSON object only, with no prose before or after it and no Markdown code fences.`

const (
	userPreamble = "Property Details:\n\n"
	userTrailer  = "\n\nRespond ONLY in JSON with keys: headline, summary, bulletPoints."
)

// Role 对应 chat 模型的消息角色。
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message 表示发送给 LLM 的一条消息。
type Message struct {
	Role    Role
	Content string
}

// Messages builds the role-tagged sequence: the system instruction first, then the property details.
func (r GenerationRequest) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: r.SystemInstruction},
		{Role: RoleUser, Content: userPreamble + r.Body() + userTrailer},
	}
}
