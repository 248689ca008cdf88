// Package render draws pedigrees as node-link diagrams.
//
// [ToDOT] converts a pedigree to Graphviz DOT with one rank per generation
// level, founders at the top and probands at the bottom. [RenderSVG] and
// [RenderPNG] rasterise the DOT through the embedded Graphviz engine, so no
// system Graphviz installation is required.
package render
