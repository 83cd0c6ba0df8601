package renderer

import (
	"fmt"
	"strings"

	"fintidy"
)

// CategoryTreeMarkdown renders the category tree as a nested markdown list.
func CategoryTreeMarkdown(root *fintidy.Category) string {
	var b strings.Builder
	b.WriteString("# Categories\n\n")
	writeNode(&b, root, 0)
	return b.String()
}

func writeNode(b *strings.Builder, node *fintidy.Category, depth int) {
	for _, child := range node.Children {
		fmt.Fprintf(b, "%s- %s\n", strings.Repeat("  ", depth), child.Name)
		writeNode(b, child, depth+1)
	}
}
