package pipeline

import (
	"context"

	"github.com/couchcryptid/produce-price-report/internal/domain"
)

// StaticSelection is a SelectionProvider that returns a fixed selection,
// used for non-interactive runs.
type StaticSelection domain.RawSelection

// Select returns the stored selection regardless of the catalogs.
func (s StaticSelection) Select(_ context.Context, _ domain.Catalogs) (domain.RawSelection, error) {
	return domain.RawSelection(s), nil
}
