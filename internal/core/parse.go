package core

import "strings"

// RefKind classifies an outbound reference.
type RefKind string

const (
	RefExternal RefKind = "external" // URL scheme or mailto, never resolved
	RefAnchor   RefKind = "anchor"   // same-document anchor, never resolved
	RefInternal RefKind = "internal" // path into the corpus
)

// Reference is one [text](target) occurrence in a document.
type Reference struct {
	Text      string  // display text
	RawTarget string  // target as written, including any fragment
	Path      string  // path portion of the target ("" for anchor-only)
	Fragment  string  // fragment including the leading "#", "" if none
	Kind      RefKind
	Line      int     // 1-based
	Resolved  string  // corpus-relative resolved path (internal refs only)
}

// RawLink reconstructs the literal reference syntax as it appears in the
// document. Rewriting matches on this exact string.
func (r Reference) RawLink() string {
	return "[" + r.Text + "](" + r.RawTarget + ")"
}

// extractReferences parses a document's content into its ordered list of
// references. The scan is line oriented and tracks fenced code blocks and
// inline code spans: reference syntax inside either is not extracted.
func extractReferences(sourcePath, content string) []Reference {
	var out []Reference
	inFence := false
	for i, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		out = append(out, parseLine(sourcePath, stripInlineCode(line), i+1)...)
	}
	return out
}

// parseLine extracts [text](target) references from a single line.
func parseLine(sourcePath, line string, lineNum int) []Reference {
	var out []Reference
	remaining := line
	for {
		open := strings.Index(remaining, "[")
		if open == -1 {
			break
		}
		// "[[" opens a wikilink, not a markdown reference.
		if open+1 < len(remaining) && remaining[open+1] == '[' {
			remaining = remaining[open+2:]
			continue
		}
		mid := strings.Index(remaining[open:], "](")
		if mid == -1 {
			break
		}
		mid = open + mid
		end := strings.Index(remaining[mid+2:], ")")
		if end == -1 {
			break
		}
		end = mid + 2 + end

		text := remaining[open+1 : mid]
		rawTarget := strings.TrimSpace(remaining[mid+2 : end])
		out = append(out, classify(sourcePath, text, rawTarget, lineNum))
		remaining = remaining[end+1:]
	}
	return out
}

// classify splits a raw target into path and fragment and assigns its kind.
func classify(sourcePath, text, rawTarget string, lineNum int) Reference {
	ref := Reference{
		Text:      text,
		RawTarget: rawTarget,
		Line:      lineNum,
	}
	ref.Path, ref.Fragment = splitFragment(rawTarget)

	switch {
	case isExternal(ref.Path):
		ref.Kind = RefExternal
	case ref.Path == "":
		ref.Kind = RefAnchor
	default:
		ref.Kind = RefInternal
		ref.Resolved = resolveTarget(sourcePath, ref.Path)
	}
	return ref
}

// splitFragment splits "path#fragment" into ("path", "#fragment").
// Returns (input, "") when there is no fragment.
func splitFragment(target string) (string, string) {
	if idx := strings.Index(target, "#"); idx != -1 {
		return target[:idx], target[idx:]
	}
	return target, ""
}

func isExternal(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "mailto:")
}

// stripInlineCode removes backtick-delimited spans from a line so that
// reference syntax inside inline code is not picked up.
func stripInlineCode(line string) string {
	var out strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '`' {
			inCode = !inCode
			continue
		}
		if !inCode {
			out.WriteByte(ch)
		}
	}
	return out.String()
}
