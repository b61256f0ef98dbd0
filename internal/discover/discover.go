// Package discover locates per-sample annotation tables in a directory.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPattern matches the SnpSift tables written by the MDR pipeline.
const DefaultPattern = "*_mdr.tsv"

// Input formats.
const (
	FormatTSV = "tsv"
	FormatVCF = "vcf"
)

// Input is one discovered sample table.
type Input struct {
	Sample string
	Path   string
	Format string
}

// Find returns the files in dir matching pattern in lexical order. The
// sample name is the file name without the literal suffix that follows the
// pattern's last '*' (e.g. "S1_mdr.tsv" → "S1" for "*_mdr.tsv").
func Find(dir, pattern string) ([]Input, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", dir)
	}
	if pattern == "" {
		pattern = DefaultPattern
	}

	// filepath.Glob returns matches in lexical order
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	inputs := make([]Input, 0, len(matches))
	for _, path := range matches {
		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			continue
		}
		inputs = append(inputs, Input{
			Sample: SampleName(filepath.Base(path), pattern),
			Path:   path,
			Format: DetectFormat(path),
		})
	}
	return inputs, nil
}

// SampleName derives a sample name from a file name.
func SampleName(base, pattern string) string {
	if i := strings.LastIndex(pattern, "*"); i >= 0 {
		suffix := pattern[i+1:]
		if suffix != "" && !strings.ContainsAny(suffix, "*?[") && strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}

	// Fall back to stripping all extensions
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// DetectFormat detects the table format from the file extension.
func DetectFormat(path string) string {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	lower = strings.TrimSuffix(lower, ".bgz")
	if strings.HasSuffix(lower, ".vcf") {
		return FormatVCF
	}
	return FormatTSV
}
