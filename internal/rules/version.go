package rules

import "strings"

// VersionLabel derives a label from a fixVersion string, or returns ""
// when the marker token is absent or the value is too short to carry the
// expected shape.
func (rs RuleSet) VersionLabel(fixVersion string) string {
	if fixVersion == "" || !strings.Contains(fixVersion, rs.VersionMarker) {
		return ""
	}

	parts := strings.Split(fixVersion, "-")
	switch rs.VersionStyle {
	case VersionReleaseMR:
		// "lit-2410-tandf-6.0" -> "2410 MR6"
		if len(parts) < 2 {
			return ""
		}
		release := parts[1]
		version := parts[len(parts)-1]
		major, _, _ := strings.Cut(version, ".")
		if release == "" || major == "" {
			return ""
		}
		return release + " MR" + major
	default:
		// "TF-2410" -> "mr2410"
		last := parts[len(parts)-1]
		if last == "" {
			return ""
		}
		return rs.VersionPrefix + strings.ToLower(last)
	}
}
