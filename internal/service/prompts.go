package service

import (
	"sort"
	"strings"

	"repurpose-server/internal/models"
)

// DefaultPlatform используется, когда платформа в запросе не указана.
const DefaultPlatform = "twitter"

// platformPrompts содержит инструкции для каждой поддерживаемой платформы.
// Каждая инструкция описывает формат и тон площадки, смысл статьи она менять не должна.
var platformPrompts = map[string]string{
	"twitter": `
You are a viral Twitter/X content expert.
Convert the article into a punchy 5-tweet thread.
- Start with a hook tweet that grabs attention immediately
- Each tweet must be under 280 characters
- Label each tweet: Tweet 1:, Tweet 2:, etc.
- End with a call-to-action tweet
- Add relevant hashtags
`,
	"linkedin": `
You are a professional LinkedIn content strategist.
Convert the article into a LinkedIn post.
- Start with a bold first line that stops the scroll
- Use short paragraphs (2-3 lines max)
- Add 3-5 key takeaways using bullet points
- End with a thought-provoking question
- Keep it between 150-300 words
`,
	"instagram": `
You are an Instagram caption expert.
Convert the article into an engaging Instagram caption.
- Hook in the first line
- Storytelling style, personal and relatable
- Add a clear call-to-action at the end
- Suggest 10 relevant hashtags at the bottom
- Keep caption under 200 words
`,
	"newsletter": `
You are an email newsletter writer.
Convert the article into a short newsletter section.
- Write a catchy subject line first (label it: Subject:)
- Conversational, friendly tone
- Summarize the core idea in 3 short paragraphs
- Add one actionable tip the reader can use today
- End with a 1-sentence teaser for next week
`,
	"medium": `
You are a Medium blog writer.
Convert the article into a well-structured Medium post.
- Write a compelling title (label it: Title:)
- Start with a strong opening paragraph that draws the reader in
- Use clear subheadings to break up sections
- Write in a thoughtful, conversational tone
- Include real examples or analogies to explain key points
- End with a powerful conclusion and a question for readers
- Aim for 400-600 words
`,
}

// KnownPlatforms возвращает отсортированный список поддерживаемых платформ.
func KnownPlatforms() []string {
	platforms := make([]string, 0, len(platformPrompts))
	for platform := range platformPrompts {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}

// ResolvePlatform нормализует тег платформы и проверяет, что он поддерживается.
// Пустое значение заменяется на DefaultPlatform.
// Для неизвестного тега возвращается models.ErrUnknownPlatform.
func ResolvePlatform(platform string) (string, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return DefaultPlatform, nil
	}
	if _, ok := platformPrompts[platform]; !ok {
		return "", models.ErrUnknownPlatform
	}
	return platform, nil
}

// BuildPrompt собирает промт для AI из инструкций платформы и текста статьи.
// Платформа должна быть уже нормализована через ResolvePlatform.
func BuildPrompt(platform, article string) (string, error) {
	instructions, ok := platformPrompts[platform]
	if !ok {
		return "", models.ErrUnknownPlatform
	}
	return instructions + "\n\nARTICLE:\n" + article, nil
}
