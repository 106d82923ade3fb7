package diffusion

import (
	"context"
	"fmt"
	"io"

	"github.com/rook-computer/neoncity/internal/canvas"
)

// Run generates one image with profile p and writes it to outPath, printing
// the same progress lines for every profile.
func Run(ctx context.Context, gen Generator, p Profile, seed int64, outPath string, w io.Writer) error {
	req := p.Request(seed)
	fmt.Fprintf(w, "Loading Stable Diffusion model (%s mode)...\n", p.Name)
	fmt.Fprintln(w, p.Description)
	fmt.Fprintf(w, "Generating image: %s\n", req.Prompt)
	if p.Name != "gpu" {
		fmt.Fprintln(w, "This may take several minutes on CPU...")
	}

	img, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generate %s: %w", p.Name, err)
	}
	if err := canvas.Save(canvas.FromImage(img), outPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "Image saved to: %s\n", outPath)
	return nil
}
