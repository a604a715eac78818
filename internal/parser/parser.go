// Package parser dispatches a tool-library file to the parser for its format.
package parser

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tooldecoder/tooldecoder/internal/detect"
	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
	"github.com/tooldecoder/tooldecoder/internal/parser/aspiredb"
	"github.com/tooldecoder/tooldecoder/internal/parser/carveco"
	"github.com/tooldecoder/tooldecoder/internal/parser/estlcam"
	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// Parser reads one tool-library format.
type Parser interface {
	// Name returns the format identifier.
	Name() string

	// Description names the producing application.
	Description() string

	// Extension is the file extension this parser claims, with the dot.
	Extension() string

	// Parse reads every tool in the file at path.
	Parse(ctx context.Context, path string) (*Result, error)
}

// Result is the outcome of parsing one file.
type Result struct {
	Format string
	Tools  []tool.Tool
}

// Registry maps file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		parsers: make(map[string]Parser),
		logger:  logger,
	}
}

// Default returns a registry with every supported format registered.
func Default(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(aspire12{})
	r.Register(carvecoParser{})
	r.Register(estlcamParser{})
	r.Register(toolFile{})
	return r
}

// Register adds a parser, replacing any parser for the same extension.
func (r *Registry) Register(p Parser) {
	r.parsers[strings.ToLower(p.Extension())] = p
}

// ForFile returns the parser for path's extension.
func (r *Registry) ForFile(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, apperrors.Unsupported("no parser for %q files", ext)
	}
	return p, nil
}

// All returns every registered parser ordered by extension.
func (r *Registry) All() []Parser {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	parsers := make([]Parser, 0, len(exts))
	for _, ext := range exts {
		parsers = append(parsers, r.parsers[ext])
	}
	return parsers
}

// Parse reads the file at path with the parser for its extension.
func (r *Registry) Parse(ctx context.Context, path string) (*Result, error) {
	p, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := p.Parse(ctx, path)
	if err != nil {
		r.logger.Debug("parse failed",
			zap.String("path", path),
			zap.String("parser", p.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	compatible := 0
	for _, t := range res.Tools {
		if t.Compatible {
			compatible++
		}
	}
	r.logger.Debug("parsed tool library",
		zap.String("path", path),
		zap.String("format", res.Format),
		zap.Int("tools", len(res.Tools)),
		zap.Int("compatible", compatible),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// ============================================================
// Formats
// ============================================================

type aspire12 struct{}

func (aspire12) Name() string        { return "aspire12" }
func (aspire12) Description() string { return "Vectric Aspire 12 tool database" }
func (aspire12) Extension() string   { return ".vtdb" }

func (p aspire12) Parse(ctx context.Context, path string) (*Result, error) {
	tools, err := aspiredb.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Result{Format: p.Name(), Tools: tools}, nil
}

type carvecoParser struct{}

func (carvecoParser) Name() string        { return "carveco" }
func (carvecoParser) Description() string { return "CarveCo tool database" }
func (carvecoParser) Extension() string   { return ".tdb" }

func (p carvecoParser) Parse(ctx context.Context, path string) (*Result, error) {
	buf, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	tools, err := carveco.Parse(buf)
	if err != nil {
		return nil, err
	}
	return &Result{Format: p.Name(), Tools: tools}, nil
}

type estlcamParser struct{}

func (estlcamParser) Name() string        { return "estlcam" }
func (estlcamParser) Description() string { return "ESTLcam tool library" }
func (estlcamParser) Extension() string   { return ".tl" }

func (p estlcamParser) Parse(ctx context.Context, path string) (*Result, error) {
	buf, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	tools, err := estlcam.Parse(buf)
	if err != nil {
		return nil, err
	}
	return &Result{Format: p.Name(), Tools: tools}, nil
}

// toolFile handles .tool, an extension shared by several producers. The
// dialect is picked by the detector chain.
type toolFile struct{}

func (toolFile) Name() string        { return "tool" }
func (toolFile) Description() string { return "Vectric Aspire 9 tool library (detected)" }
func (toolFile) Extension() string   { return ".tool" }

func (toolFile) Parse(ctx context.Context, path string) (*Result, error) {
	binding, ok, err := detect.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unsupported("unrecognized .tool dialect in %s", filepath.Base(path))
	}

	buf, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	tools, err := binding.Parse(buf)
	if err != nil {
		return nil, err
	}
	return &Result{Format: binding.Format, Tools: tools}, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.SourceRead(err, "read %s", path)
	}
	return buf, nil
}
