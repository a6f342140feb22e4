package cmd

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/jack/internal/ast"
	"github.com/tangzhangming/jack/internal/codec"
)

// readTree 读取转储文件，格式由扩展名决定
func readTree(path string) (*ast.Program, error) {
	format, err := codec.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree: %w", err)
	}
	defer f.Close()

	p, err := codec.Decode(f, format)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Debug("decode error", zap.String("file", path), zap.Error(e))
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("tree loaded", zap.String("file", path), zap.Stringer("format", format))
	return p, nil
}
