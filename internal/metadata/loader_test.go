package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	archerrors "archscope/internal/errors"
)

const sampleDump = `{
  "unit": "billing-service",
  "types": [
    {
      "name": "com.app.Billing",
      "kind": "class",
      "superClass": "java.lang.Object",
      "fields": [{"name": "store", "type": "com.app.Store"}],
      "methods": [
        {
          "name": "charge",
          "body": [{"op": "invoke", "target": "com.app.Store", "member": "save"}]
        }
      ]
    },
    {"name": "com.app.Store", "kind": "interface"}
  ]
}`

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(sampleDump), 0644); err != nil {
		t.Fatal(err)
	}

	unit, err := NewFileLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if unit.Name != "billing-service" {
		t.Errorf("unit name = %s", unit.Name)
	}
	if len(unit.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(unit.Types))
	}

	billing := unit.Types[0]
	if billing.Name != "com.app.Billing" || billing.Kind != KindClass {
		t.Errorf("unexpected first type: %+v", billing)
	}
	if len(billing.Methods) != 1 || len(billing.Methods[0].Body) != 1 {
		t.Fatalf("instruction stream not decoded: %+v", billing.Methods)
	}
	ins := billing.Methods[0].Body[0]
	if ins.Op != OpInvoke || ins.Target != "com.app.Store" || ins.Member != "save" {
		t.Errorf("instruction = %+v", ins)
	}
	if unit.Types[1].Kind != KindInterface {
		t.Errorf("second type kind = %s", unit.Types[1].Kind)
	}
}

func TestFileLoaderZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(sampleDump)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	unit, err := NewFileLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if unit.Name != "billing-service" || len(unit.Types) != 2 {
		t.Errorf("decompressed dump mismatch: %s, %d types", unit.Name, len(unit.Types))
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "absent.json")).Load()
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *archerrors.AnalysisError
	if !errors.As(err, &ae) || ae.Code != archerrors.InputUnreadable {
		t.Errorf("expected INPUT_UNREADABLE, got %v", err)
	}
}

func TestFileLoaderMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileLoader(path).Load()
	var ae *archerrors.AnalysisError
	if !errors.As(err, &ae) || ae.Code != archerrors.InputUnreadable {
		t.Errorf("expected INPUT_UNREADABLE, got %v", err)
	}
}

func TestFileLoaderDefaultsUnitName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.json")
	if err := os.WriteFile(path, []byte(`{"types": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	unit, err := NewFileLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if unit.Name != path {
		t.Errorf("unit name = %s, want the dump path", unit.Name)
	}
}

func TestParseManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	content := `
name = "billing-service"
version = "2.4.0"
platform_namespaces = ["java.", "scala."]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if m.Name != "billing-service" || m.Version != "2.4.0" {
		t.Errorf("manifest = %+v", m)
	}
	if len(m.PlatformNamespaces) != 2 {
		t.Errorf("namespaces = %v", m.PlatformNamespaces)
	}
	if m.PlatformRoot != "java.lang.Object" {
		t.Errorf("unset platform root should default, got %s", m.PlatformRoot)
	}
}

func TestMethodHelpers(t *testing.T) {
	tests := []struct {
		name        string
		constructor bool
		setter      bool
	}{
		{"<init>", true, false},
		{"setName", false, true},
		{"settle", false, false},
		{"set", false, false},
		{"getName", false, false},
	}
	for _, tt := range tests {
		m := Method{Name: tt.name}
		if m.IsConstructor() != tt.constructor {
			t.Errorf("IsConstructor(%q) = %v", tt.name, m.IsConstructor())
		}
		if m.IsSetter() != tt.setter {
			t.Errorf("IsSetter(%q) = %v", tt.name, m.IsSetter())
		}
	}
}

func TestSimpleName(t *testing.T) {
	if got := SimpleName("com.app.Billing"); got != "Billing" {
		t.Errorf("SimpleName = %s", got)
	}
	if got := SimpleName("TopLevel"); got != "TopLevel" {
		t.Errorf("SimpleName = %s", got)
	}
}
