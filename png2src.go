/*
Package png2src converts directories of indexed PNG images into the
packed sprite data understood by the WASM-4 fantasy console, rendered
as Rust constant declarations ready to include in a cartridge project.
*/
package png2src

import "go.uber.org/zap"

type Tool struct {
	db      *Catalog
	logger  *zap.Logger
	workers int
}

func New(db *Catalog, logger *zap.Logger, workers int) *Tool {
	if workers < 1 {
		workers = 1
	}
	return &Tool{
		db:      db,
		logger:  logger,
		workers: workers,
	}
}
