package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// resolvedJSON mirrors [Profile] for the diagnostic dump. It exists
// separately from Profile so the JSON shape is stable even if Profile's
// internal layout changes, and so the dump can carry a leading comment
// (hujson, not plain JSON) explaining what it is.
type resolvedJSON struct {
	Global      Global       `json:"global"`
	Filesystems []Filesystem `json:"filesystems"`
	Groups      []ThreadGroup `json:"groups"`
}

// DumpResolved durably writes the fully bound, post-validation profile
// to path as JSONC, for exactly reproducing a run later (see
// SPEC_FULL.md §4.7). This is a reproducibility side-channel, not the
// benchmark's output — it never contains run results.
func DumpResolved(path string, p *Profile) error {
	doc := resolvedJSON{Global: p.Global, Filesystems: p.Filesystems, Groups: p.Groups}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling resolved profile: %w", err)
	}

	var out strings.Builder
	out.WriteString("// Resolved, post-validation configuration. Informational only;\n")
	out.WriteString("// this file is not read back automatically.\n")
	out.Write(body)
	out.WriteString("\n")

	if err := atomic.WriteFile(path, strings.NewReader(out.String())); err != nil {
		return fmt.Errorf("config: writing resolved profile to %s: %w", path, err)
	}

	return nil
}

// LoadResolvedJSON reads back a file written by [DumpResolved]. JSONC
// comments are stripped via hujson.Standardize before decoding.
func LoadResolvedJSON(text string) (*Profile, error) {
	standardized, err := hujson.Standardize([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("config: standardizing resolved JSON: %w", err)
	}

	var doc resolvedJSON
	if err := json.Unmarshal(standardized, &doc); err != nil {
		return nil, fmt.Errorf("config: decoding resolved JSON: %w", err)
	}

	return &Profile{Global: doc.Global, Filesystems: doc.Filesystems, Groups: doc.Groups}, nil
}
