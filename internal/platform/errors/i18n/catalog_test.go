package i18n

import "testing"

func TestGetCatalogFallsBackToBase(t *testing.T) {
	base := GetCatalog(BaseLocale)
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog("missing-locale"); got != base {
		t.Fatal("expected unknown locale to fall back to en-US")
	}
}

func TestGetCatalogMatchesRegion(t *testing.T) {
	cat := GetCatalog("pt")
	if cat == nil || cat.Locale() != "pt-BR" {
		t.Fatalf("expected pt to resolve to pt-BR, got %v", cat)
	}
}

func TestFormatUnknownCodeRendersCode(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{"code": "hello {{.Name}}"})
	if got := cat.Format("unknown", nil); got != "unknown" {
		t.Fatalf("Format(unknown) = %q, want the code itself", got)
	}
}

func TestFormatNilMetadataStillExecutes(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{"code": "hello {{.Name}}"})
	if got := cat.Format("code", nil); got != "hello <no value>" {
		t.Fatalf("Format with nil metadata = %q", got)
	}
}

func TestFormatBrokenTemplatesRenderRaw(t *testing.T) {
	cases := []struct {
		name string
		tmpl string
	}{
		{"parse error", "{{ if .Name }}"},
		{"execute error", "{{ call .Name }}"},
	}
	for _, tc := range cases {
		cat := NewCatalog("test", map[Code]string{"code": tc.tmpl})
		if got := cat.Format("code", map[string]string{"Name": "X"}); got != tc.tmpl {
			t.Fatalf("%s: Format = %q, want raw template %q", tc.name, got, tc.tmpl)
		}
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
