package openai

// systemPrompt frames the model as a resume reviewer. Output style constants
// live in client.go so every request generates comparable feedback.
const systemPrompt = `You are an expert resume reviewer and career coach. Your task is to analyze the resume provided and offer specific, actionable improvements. Focus on:
1. Content strength and impact of bullet points
2. ATS optimization and keyword usage
3. Format and layout suggestions
4. Overall impression and positioning
5. Specific rewritten examples of weak sections

Structure your response with clear sections and provide both high-level strategic advice and specific tactical changes.`

const userPromptPrefix = "Please analyze this resume and provide detailed feedback for improvement:\n\n"

// BuildMessages assembles the fixed instructional prompt around the resume text.
func BuildMessages(resumeText string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPromptPrefix + resumeText},
	}
}
