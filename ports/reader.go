package ports

import (
	"context"

	"hyporeport/domain/dataset"
)

// DatasetReader loads a tabular file into a frame
type DatasetReader interface {
	Load(ctx context.Context, path string) (*dataset.Frame, error)
}
