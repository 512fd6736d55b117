package content

import (
	"fmt"
	"strings"
)

func cannedAbstract(topic string) string {
	return fmt.Sprintf("%[1]s is a significant advancement in modern technology with wide-ranging applications across various industries. "+
		"It provides innovative solutions to complex problems through its unique approach and methodology. "+
		"The fundamental principles underlying %[1]s enable efficient and effective implementation in diverse scenarios. "+
		"Organizations and individuals leverage %[1]s to achieve better outcomes and improved performance. "+
		"The field continues to evolve with new developments and innovations. "+
		"Research and development efforts are driving continuous improvements. "+
		"This presentation explores the key aspects, benefits, and practical applications of %[1]s. "+
		"Understanding these concepts is essential for professionals in this domain.", topic)
}

func cannedParagraph(title, topic string) string {
	return fmt.Sprintf("This section provides a comprehensive overview of %[1]s in the context of %[2]s. "+
		"Understanding these fundamentals is essential for effective implementation and utilization. "+
		"The concepts presented here form the foundation for advanced topics covered in subsequent sections. "+
		"Practical applications and real-world examples demonstrate the relevance and importance of this subject matter. "+
		"The field has evolved significantly over the years with continuous innovations. "+
		"Modern approaches incorporate best practices from various domains. "+
		"By mastering these concepts, professionals can leverage %[2]s to achieve significant improvements in their respective domains. "+
		"This knowledge is crucial for anyone working in this field. "+
		"The ongoing research and development continues to drive new discoveries. "+
		"Organizations worldwide are investing in these technologies to stay competitive.", strings.ToLower(title), topic)
}

// DefaultBullets is the canned eight-line bullet body for topic.
func DefaultBullets(topic string) string {
	return FormatBullets(strings.Join([]string{
		fmt.Sprintf("Provides fundamental capabilities for %s implementation.", topic),
		"Enables efficient processing and management of resources.",
		"Supports scalable solutions for various requirements.",
		"Ensures reliable performance across different scenarios.",
		"Facilitates integration with existing systems and workflows.",
		"Offers comprehensive documentation and support resources.",
		"Delivers consistent results in production environments.",
		"Enables rapid development and deployment cycles.",
	}, "\n"))
}
