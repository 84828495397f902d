package pkgfmt

import "golang.org/x/text/unicode/norm"

// NormalizeIdentifier NFC-normalizes a package_id, module_id, or exported
// symbol name before it is hashed or compared. Two strings that render
// identically but differ in Unicode composition (e.g. an accented letter as
// one codepoint versus a base letter plus a combining mark) must resolve to
// the same package identity; without this, they'd hash to different
// manifest digests and silently fork a package's identity space. Grounded
// on the teacher's internal/vm/intrinsic_string.go, which already imports
// golang.org/x/text/unicode/norm for the same normalization at runtime —
// reused here for package-identity strings instead of runtime string
// values.
func NormalizeIdentifier(s string) string {
	return norm.NFC.String(s)
}
