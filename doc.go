// Package ldsc provides shared plumbing for tools that prepare GWAS
// summary statistics for LD Score regression: transparent decompression
// of input files, delimiter detection, home-directory expansion, and a
// logger that mirrors every message to a run log file.
package ldsc
