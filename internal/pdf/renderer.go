package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/orcafacil/api/internal/config"
)

// ErrNotConfigured is returned when no renderer binary is configured; only
// the invoice export route depends on one.
var ErrNotConfigured = errors.New("pdf renderer not configured")

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// New selects an implementation from configuration.
func New(cfg config.PDFConfig) Renderer {
	if cfg.RendererBin == "" {
		return disabledRenderer{}
	}
	return &ExecRenderer{bin: cfg.RendererBin}
}

// ExecRenderer shells out to a wkhtmltopdf-compatible binary that reads HTML
// on stdin and writes PDF to stdout.
type ExecRenderer struct {
	bin string
}

// Render runs the external renderer.
func (r *ExecRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, "--quiet", "-", "-")
	cmd.Stdin = bytes.NewReader(html)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("render pdf: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

type disabledRenderer struct{}

func (disabledRenderer) Render(context.Context, []byte) ([]byte, error) {
	return nil, ErrNotConfigured
}
