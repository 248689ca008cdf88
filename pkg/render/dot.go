package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kincut/kincut/pkg/pedigree"
)

// Options configures pedigree rendering.
type Options struct {
	// Highlight draws the listed vertices (typically the probands) with a
	// filled accent style.
	Highlight []int
}

// ToDOT converts a pedigree to Graphviz DOT format. Generations are pinned
// to ranks so founders sit at the top and probands at the bottom; edges run
// from parent to child.
func ToDOT(p *pedigree.Pedigree, opts Options) (string, error) {
	levels, err := p.Levels()
	if err != nil {
		return "", fmt.Errorf("rank generations: %w", err)
	}

	highlight := make(map[int]struct{}, len(opts.Highlight))
	for _, v := range opts.Highlight {
		highlight[v] = struct{}{}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph pedigree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	// Levels run probands-first; emit them reversed so founders rank first.
	for i := len(levels) - 1; i >= 0; i-- {
		buf.WriteString("  { rank=same;")
		for _, v := range levels[i] {
			fmt.Fprintf(&buf, " %d;", v)
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("\n")

	for _, v := range p.Vertices() {
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprint(v))}
		if _, ok := highlight[v]; ok {
			attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", v, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range p.Vertices() {
		for _, parent := range p.Parents(c) {
			fmt.Fprintf(&buf, "  %d -> %d;\n", parent, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using the embedded Graphviz engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
