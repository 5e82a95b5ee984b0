package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DescriptionHeading introduces the intro text in README.md.
const DescriptionHeading = "## Description"

// Readme renders the description document.
func Readme(title, intro string, r *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "%s\n\n%s\n\n", DescriptionHeading, strings.TrimSpace(intro))
	buf.WriteString("## Statistics\n\n")
	fmt.Fprintf(&buf, "- Languages: %d\n", len(r.Languages))
	fmt.Fprintf(&buf, "- Parameters: %d\n", len(r.Parameters))
	fmt.Fprintf(&buf, "- Codes: %d\n", len(r.Codes))
	fmt.Fprintf(&buf, "- Values: %d\n", len(r.Values))
	fmt.Fprintf(&buf, "- Examples: %d\n", len(r.Examples))
	fmt.Fprintf(&buf, "- Sources: %d\n", r.Bibliography.Len())
	return buf.Bytes()
}

// WriteReadme writes README.md to dest from the intro at introPath. It
// reports false without writing when the intro does not exist.
func WriteReadme(dest, introPath, title string, r *Result) (bool, error) {
	intro, err := os.ReadFile(introPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(dest, Readme(title, string(intro), r), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", dest, err)
	}
	return true, nil
}
