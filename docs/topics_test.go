package docs

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic is listed in readme.md, and every listed topic exists.
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatal(err)
	}
	topicRegex := regexp.MustCompile(`(?m)^\*\s+([^:]+):`)
	var listed []string
	for _, m := range topicRegex.FindAllStringSubmatch(readme, -1) {
		listed = append(listed, strings.TrimSpace(m[1]))
	}
	slices.Sort(listed)

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(listed, all) {
		t.Errorf("readme lists %v, topics are %v", listed, all)
	}
}

func TestTopics_StartWithTitle(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append(all, "readme") {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			doc := goldmark.New().Parser().Parse(text.NewReader([]byte(content)))
			h, ok := doc.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic %q does not start with a title", topic)
			}
		})
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Investments", "# Claims", "# Configuration", "# Records"} {
		if !strings.Contains(all, want) {
			t.Errorf(`GetTopics("*") misses %q`, want)
		}
	}
	if _, err := GetTopics("records", "nope"); err == nil {
		t.Error("GetTopics with an unknown topic succeeded")
	}
}
