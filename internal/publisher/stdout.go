package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/eltonkola/bleta/internal/archive"
)

// StdoutPublisher prints the day's archive to stdout.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) Publish(_ context.Context, doc *archive.Document) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("%s - %s\n", doc.Project.Name, doc.Date)
	fmt.Printf("%d articles from %s\n", doc.TotalArticles, strings.Join(doc.Sources, ", "))
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()

	for i, a := range doc.Articles {
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("%d. %s\n", i+1, a.Title)
		fmt.Printf("   Source: %s (%s)\n", a.Source, a.Language)
		fmt.Printf("   Link: %s\n", a.Link)
		fmt.Println()
		summary := a.Summary
		if summary == "" {
			summary = a.Description
		}
		fmt.Printf("   %s\n", summary)
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 72))
	return nil
}
