package store

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/stratagem/techtree/internal/codec"
	"github.com/stratagem/techtree/internal/tech"
)

// LoadTreeFile reads a wire-format tree file and decodes it into a registry.
//
// The file is read as a single blob and handed to the codec; decode
// permissiveness applies, so a partially garbled file still yields the
// technologies that parsed. Skipped lines are reported through logger when
// one is supplied.
func LoadTreeFile(path string, logger *slog.Logger) (*tech.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	reg := codec.DecodeWithLogger(data, logger)
	slog.Debug("loaded tree file", "path", path, "technologies", reg.Len())
	return reg, nil
}

// SaveTreeFile encodes a registry and writes it as a whole blob.
func SaveTreeFile(path string, reg *tech.Registry) error {
	if err := os.WriteFile(path, codec.Encode(reg), 0o644); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	return nil
}
