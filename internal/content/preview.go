package content

import (
	"fmt"
	"strings"

	"cassandra/internal/domain/slide"
)

// DefaultPreviewSlides is the canned ten-slide preview served when
// generation breaks unexpectedly.
func DefaultPreviewSlides(topic string) []slide.Plan {
	bullets := func(lines ...string) string {
		return PrefixGlyph(strings.Join(lines, "\n"), "•")
	}
	return []slide.Plan{
		{
			Title: fmt.Sprintf("Introduction to %s", topic),
			Content: fmt.Sprintf("%[1]s represents a significant advancement in its field. It encompasses various methodologies and approaches that have evolved over time. "+
				"The fundamental principles underlying %[1]s provide a strong foundation for understanding its applications.", topic),
			Style: slide.StyleParagraph,
		},
		{
			Title: fmt.Sprintf("Overview of %s", topic),
			Content: bullets(
				fmt.Sprintf("%s is a comprehensive framework that addresses modern challenges.", topic),
				"It integrates multiple components to provide effective solutions.",
				"The core principles are designed for scalability and efficiency.",
				"Understanding the fundamentals enables better implementation.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Key Concepts",
			Content: bullets(
				"Foundation principles form the backbone of implementation.",
				"Core terminology and definitions establish clear understanding.",
				"Theoretical frameworks guide practical applications.",
				"Component relationships enable system integration.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Core Principles",
			Content: bullets(
				"Modularity ensures flexible component design.",
				"Scalability considerations enable growth and adaptation.",
				"Efficiency optimization reduces resource consumption.",
				"Reliability measures guarantee consistent performance.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Applications & Use Cases",
			Content: bullets(
				"Industry applications demonstrate practical value.",
				"Research applications advance scientific understanding.",
				"Everyday use cases show accessibility to users.",
				"Future possibilities reveal untapped potential.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Advantages",
			Content: bullets(
				"Enhanced efficiency improves overall performance.",
				"Cost-effectiveness reduces operational expenses.",
				"Scalability allows adaptation to requirements.",
				"User-friendly design ensures easy adoption.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Disadvantages",
			Content: bullets(
				"Initial implementation may require investment.",
				"Learning curve can be steep for complex uses.",
				"Compatibility issues may arise with legacy systems.",
				"Maintenance needs ongoing attention.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Limitations",
			Content: bullets(
				"Technical constraints may limit certain applications.",
				"Resource requirements can be substantial.",
				"Knowledge gaps exist in specific areas.",
				"Environmental factors may affect performance.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Future Scope",
			Content: bullets(
				"Emerging trends indicate growing adoption.",
				"Research explores new application domains.",
				"Technological advances enable enhanced capabilities.",
				"Industry evolution creates new opportunities.",
			),
			Style: slide.StyleBullet,
		},
		{
			Title: "Conclusion",
			Content: fmt.Sprintf("In conclusion, %s offers significant value across multiple dimensions. The advantages clearly outweigh the limitations when proper implementation strategies are followed. "+
				"Continued research and practical application will unlock further potential.", topic),
			Style: slide.StyleParagraph,
		},
	}
}
