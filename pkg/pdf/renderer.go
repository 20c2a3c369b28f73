package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Renderer turns an HTML document into PDF bytes. Implementations are
// allowed to be unavailable at runtime; callers must fall back to the
// plain renderer in that case.
type Renderer interface {
	Available() bool
	Render(ctx context.Context, html string) ([]byte, error)
}

// WkhtmltopdfRenderer shells out to the wkhtmltopdf binary.
type WkhtmltopdfRenderer struct {
	bin   string
	found bool
}

// NewWkhtmltopdf probes PATH for the binary once. A missing binary is not an
// error; Available reports false and the fallback renderer takes over.
func NewWkhtmltopdf(bin string) *WkhtmltopdfRenderer {
	if bin == "" {
		bin = "wkhtmltopdf"
	}
	_, err := exec.LookPath(bin)
	return &WkhtmltopdfRenderer{bin: bin, found: err == nil}
}

// Available reports whether the layout engine can be invoked.
func (r *WkhtmltopdfRenderer) Available() bool {
	return r != nil && r.found
}

// Render pipes HTML through stdin and reads the PDF from stdout.
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if !r.Available() {
		return nil, fmt.Errorf("%s not available", r.bin)
	}

	cmd := exec.CommandContext(ctx, r.bin, "--quiet", "--encoding", "utf-8", "-", "-")
	cmd.Stdin = bytes.NewReader([]byte(html))

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("render html: %w (%s)", err, errBuf.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("render html: empty output")
	}
	return out.Bytes(), nil
}
