package content

import (
	"encoding/json"
	"fmt"
)

func planPrompt(topic string, n int) string {
	return fmt.Sprintf(`You are creating a professional presentation about "%[1]s".

Generate EXACTLY %[2]d slide topics that DEEPLY explore this subject.

IMPORTANT RULES:
1. First 2 slides: INTRODUCTION and ABSTRACT (always include these)
2. Middle slides: Topic-specific content that dives deep into the subject
   - For technology topics: History, How it works, Syntax/Structure, Components, Implementation, Use Cases
   - For concepts: Definition, Principles, Types, Methodology, Examples, Case Studies
   - For products/tools: Features, Architecture, Installation, Usage, Best Practices
3. Last 4 slides: ADVANTAGES, DISADVANTAGES, FUTURE SCOPE, CONCLUSION (always include these)

EXAMPLE for "Python Programming":
["INTRODUCTION TO PYTHON", "ABSTRACT", "HISTORY OF PYTHON", "PYTHON SYNTAX AND STRUCTURE", "DATA TYPES IN PYTHON", "CONTROL FLOW STATEMENTS", "FUNCTIONS AND MODULES", "OBJECT ORIENTED PROGRAMMING", "FILE HANDLING", "LIBRARIES AND FRAMEWORKS", "APPLICATIONS OF PYTHON", "ADVANTAGES", "DISADVANTAGES", "FUTURE SCOPE", "CONCLUSION"]

EXAMPLE for "Machine Learning":
["INTRODUCTION TO MACHINE LEARNING", "ABSTRACT", "TYPES OF MACHINE LEARNING", "SUPERVISED LEARNING", "UNSUPERVISED LEARNING", "NEURAL NETWORKS", "DEEP LEARNING FUNDAMENTALS", "TRAINING AND TESTING", "POPULAR ML ALGORITHMS", "ML FRAMEWORKS AND TOOLS", "REAL WORLD APPLICATIONS", "ADVANTAGES", "DISADVANTAGES", "FUTURE SCOPE", "CONCLUSION"]

Now generate %[2]d slide topics for "%[1]s":
Return ONLY a valid JSON array: ["SLIDE1", "SLIDE2", ...]`, topic, n)
}

func abstractPrompt(topic string) string {
	return fmt.Sprintf(`Write a comprehensive ABSTRACT about "%s" for a professional presentation.

REQUIREMENTS:
- 8-9 sentences (180-220 words)
- Professional academic tone
- Cover: What it is, why it matters, key features, applications
- NO bullet points, just paragraph format

Write the abstract:`, topic)
}

func paragraphPrompt(title, topic string) string {
	return fmt.Sprintf(`Write a comprehensive paragraph about "%s" for a presentation on "%s".

REQUIREMENTS:
- 10-11 sentences (220-280 words)
- Professional academic tone
- Informative and detailed
- NO bullet points

Write the paragraph:`, title, topic)
}

func bulletPrompt(title, topic string) string {
	return fmt.Sprintf(`Generate exactly 8 bullet points about "%[1]s" for a presentation on "%[2]s".

CRITICAL RULES:
1. Each bullet point must be ONE clear sentence (10-15 words)
2. Each point must END with a period
3. Be specific and informative
4. NO sub-points, NO colons in the middle
5. Points must be relevant to the section topic

FORMAT (exactly like this):
Provides efficient data processing capabilities for large scale applications.
Enables seamless integration with existing enterprise systems.
Supports multiple programming languages and development frameworks.
Offers robust security features for data protection.
Facilitates real-time analytics and decision making processes.
Ensures high availability and fault tolerance mechanisms.
Delivers comprehensive monitoring and logging capabilities.
Enables rapid deployment and scaling of applications.

Now generate 8 bullet points about "%[1]s" for "%[2]s":`, title, topic)
}

func refineParagraphPrompt(title, excerpt, topic string) string {
	return fmt.Sprintf(`You are refining a slide about "%[1]s" for a presentation on "%[3]s".

Current content: %[2]s...

Write a NEW, IMPROVED paragraph about "%[1]s".

REQUIREMENTS:
- 8-9 sentences (180-220 words)
- Professional academic tone
- More detailed and informative than before
- NO bullet points

Write the improved paragraph:`, title, excerpt, topic)
}

func refineBulletPrompt(title, topic string) string {
	return fmt.Sprintf(`You are creating NEW content for a slide about "%[1]s" in a presentation on "%[2]s".

The current slide has some points, but generate COMPLETELY DIFFERENT and NEW points.
DO NOT rephrase or modify the existing points - create FRESH NEW information.

Generate 8 COMPLETELY NEW bullet points about "%[1]s".

CRITICAL RULES:
1. Each point must be ONE clear sentence (10-15 words)
2. Each point must END with a period
3. Cover DIFFERENT aspects than before
4. Be specific and informative
5. NO sub-points, NO colons, NO numbering

Write 8 fresh new bullet points:`, title, topic)
}

func refineTitlesPrompt(titles []string, topic string) string {
	encoded, _ := json.Marshal(titles)
	return fmt.Sprintf(`I have a list of slide titles for a presentation on "%s".
Some might have typos or be informal. Refine them to be professional slide titles.
Keep the SAME NUMBER of slides and roughly the same meaning.

User Input: %s

Return ONLY valid JSON: ["Title 1", "Title 2", ...]`, topic, encoded)
}
