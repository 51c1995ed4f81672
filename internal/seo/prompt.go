package seo

import (
	"fmt"
	"strings"
)

// GenerateRequest carries the current metadata handed to the generator.
type GenerateRequest struct {
	Title                string
	Description          string
	Tags                 []string
	DefaultLanguage      string
	DefaultAudioLanguage string
	Context              string // optional extra context about the video
}

const chineseTitleInstruction = `**1. TITLE (MUST be in Chinese)**
- CRITICAL: The title MUST be in Chinese. DO NOT translate to English.
- Keep it in Chinese (60 characters optimal, max 70)
- Include the most important keywords FIRST
- Use engaging words like: 必看, 攻略, 完整版, 深度, 实拍, 最新
- Make it clickable but not clickbait
- If the original title has some English (like brand names), you may keep them mixed in naturally

**2. DESCRIPTION (Bilingual)**
IMPORTANT: Preserve all existing useful information: music credits,
timestamps and chapters, links, social media handles, location details,
equipment used.

Structure:
[Chinese Section - 250+ words]
- First 25 words MUST contain primary keywords
- Natural keyword integration (2-4 times)
- KEEP all music credits, timestamps, links from original

---

[English Section - 150+ words]
- Translate/summarize the Chinese content
- SEO-optimized for English search

---

[Original Metadata - if present]`

const englishTitleInstruction = `**1. TITLE (MUST be in English)**
- CRITICAL: The title MUST be in English. DO NOT translate to Chinese.
- Keep it in English (60 characters optimal, max 70)
- Include the most important keywords FIRST
- Use engaging words like: Ultimate, Complete Guide, Best, Essential, Must-See
- Make it clickable but not clickbait

**2. DESCRIPTION (Bilingual)**
IMPORTANT: Preserve all existing useful information: music credits,
timestamps and chapters, links, social media handles, location details,
equipment used.

Structure:
[English Section - 250+ words]
- First 25 words MUST contain primary keywords
- Natural keyword integration (2-4 times)
- KEEP all music credits, timestamps, links from original

---

[Chinese Section - 150+ words]
- Translate/summarize the English content
- SEO-optimized for Chinese search

---

[Original Metadata - if present]`

// buildMetadataPrompt assembles the bilingual optimization prompt for an
// existing video.
func buildMetadataPrompt(req GenerateRequest) string {
	currentTags := "None"
	if len(req.Tags) > 0 {
		currentTags = strings.Join(req.Tags, ", ")
	}

	langInstruction := englishTitleInstruction
	exampleHashtags := "#PersonalGrowth #读书 #Productivity #ReadingChallenge #自我提升"
	if DetectLanguage(req.Title, req.Description, req.DefaultLanguage, req.DefaultAudioLanguage) == LanguageChinese {
		langInstruction = chineseTitleInstruction
		exampleHashtags = "#中国旅行 #TravelChina #旅行Vlog #ChinaTravel #旅游攻略"
	}

	context := ""
	if req.Context != "" {
		context = fmt.Sprintf("\n- Additional Context: %s", req.Context)
	}

	return fmt.Sprintf(`You are an expert in YouTube SEO. Your task is to optimize metadata for this video to improve discoverability for both primary and secondary language audiences.

**Current Video Information:**
- Title: %s
- Description: %s
- Current Tags: %s%s

**CRITICAL: Content Preservation**
The current description may contain music credits, timestamps, chapter
markers, social links, equipment or location details. YOU MUST PRESERVE ALL
OF THIS INFORMATION in the optimized description.

**Your Task:**
Generate SEO-optimized metadata following these requirements:

%s

**3. TAGS (8-12 tags, mixed Chinese & English)**
- First tag should be the most relevant keyword
- Topic-specific tags in both languages
- Balance between broad and niche keywords

**4. HASHTAGS (3-5 bilingual hashtags)**
- First 3 hashtags will appear above the video title (most visible)
- Bilingual approach for maximum discoverability
- Examples: %s
- Avoid generic tags like #video or #youtube

**Output Format (JSON):**
{
  "title": "optimized title in original language",
  "description": "Primary language section\n\n---\n\nSecondary language section",
  "tags": ["tag1", "tag2", "tag3"],
  "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3"]
}

Please generate the optimized metadata now. Return ONLY the JSON output, nothing else.`,
		req.Title, req.Description, currentTags, context, langInstruction, exampleHashtags)
}

// buildNewVideoPrompt assembles the from-scratch metadata prompt for a video
// that has not been uploaded yet.
func buildNewVideoPrompt(topic, locations, keyPoints string) string {
	extra := ""
	if locations != "" {
		extra += fmt.Sprintf("\n- Locations: %s", locations)
	}
	if keyPoints != "" {
		extra += fmt.Sprintf("\n- Key Points: %s", keyPoints)
	}

	return fmt.Sprintf(`You are an expert in YouTube SEO for travel content. Generate complete SEO-optimized metadata for a NEW Chinese travel video.

**Video Information:**
- Topic: %s%s

**Your Task:**
Create compelling, SEO-optimized metadata from scratch.

**1. TITLE (Chinese)**
- 60 characters optimal, max 70
- Primary keywords FIRST
- Engaging words: 必看, 攻略, 完整版, 深度, 实拍, 最新

**2. DESCRIPTION (Bilingual)**
[Chinese Section - 250+ words] keywords in first 25 words, detailed travel
information, natural keyword usage (2-4 times)

---

[English Section - 150+ words] translation/summary with English SEO keywords

**3. TAGS (8-12 tags, Chinese & English mixed)**
- Most relevant tag first, location-specific, broad + niche keywords

**4. HASHTAGS (3-5 bilingual)**
- First 3 will appear above the video title
- Example: #中国旅行 #TravelChina #旅游攻略 #ChinaVlog #旅行日记

**Output Format (JSON only):**
{
  "title": "optimized title",
  "description": "Chinese section\n\n---\n\nEnglish section",
  "tags": ["tag1", "tag2"],
  "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3"]
}

Return ONLY the JSON output.`, topic, extra)
}

// buildCompressPrompt assembles the description-compression prompt.
func buildCompressPrompt(description string, maxLen int, title string) string {
	titleLine := ""
	if title != "" {
		titleLine = fmt.Sprintf("\n**Video Title:** %s\n", title)
	}

	return fmt.Sprintf(`You are an expert at compressing video descriptions while preserving maximum information value.

**Task:** Compress the following video description to fit within %d characters while keeping the MOST important information.
%s
**Original Description:**
%s

**Compression Guidelines:**
1. Prioritize Chinese content - if bilingual, focus on the Chinese section
2. Keep essential information: main topic/location, key highlights, important
   tips, call-to-action if present
3. Remove or shorten: redundancy, filler, the English section if bilingual,
   timestamps and social links if space requires
4. Style: concise and punchy, short scannable lines

**Critical Requirements:**
- Output MUST be %d characters or less
- Must remain in Chinese (if original is Chinese/bilingual)
- Should feel complete, not abruptly cut off

**Output:** Return ONLY the compressed description, nothing else. No explanations, no JSON, just the compressed text.`,
		maxLen, titleLine, description, maxLen)
}
