package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"drift/internal/diag"
	"drift/internal/source"
)

func TestPrettyCountsSeveritiesAndOmitsColorCodes(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaUnresolvedSymbol, Message: "unresolved symbol", Primary: source.Span{}})
	bag.Add(&diag.Diagnostic{Severity: diag.SevWarning, Code: diag.SemaInfo, Message: "heads up"})

	var buf bytes.Buffer
	Pretty(&buf, bag, PrettyOpts{Color: false})

	out := buf.String()
	if !strings.Contains(out, "unresolved symbol") || !strings.Contains(out, "heads up") {
		t.Fatalf("expected both messages in output, got: %s", out)
	}
	if !strings.Contains(out, "1 error(s), 1 warning(s)") {
		t.Fatalf("expected a summary line, got: %s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI color codes with Color: false, got: %q", out)
	}
}
