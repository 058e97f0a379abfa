package publisher

import (
	"context"

	"github.com/eltonkola/bleta/internal/archive"
)

// Publisher renders a day's archive document to some output destination.
type Publisher interface {
	Publish(ctx context.Context, doc *archive.Document) error
}
