package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "engine error",
			code:    "E001",
			wantMsg: "Binding configuration error",
			wantCat: CategoryEngine,
		},
		{
			name:    "config error",
			code:    "E101",
			wantMsg: "Invalid config JSON",
			wantCat: CategoryConfig,
		},
		{
			name:    "scenario error",
			code:    "E202",
			wantMsg: "Invalid scenario step",
			wantCat: CategoryScenario,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryScenario, "file %q not found", "demo.yaml")
	if err.Message != `file "demo.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "demo.yaml" not found`)
	}
	if err.Category != CategoryScenario {
		t.Errorf("Category = %q, want %q", err.Category, CategoryScenario)
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"coded", New("E001"), "E001: Binding configuration error"},
		{"no code", &Error{Message: "test error"}, "test error"},
		{"wrapped", New("E200").Wrap(stderrors.New("no such file")), "E200: Scenario file not found: no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "demo.yaml")
	content := `template:
  tag: ul
steps:
  - op: set
  - op: frob
    path: items
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E202").WithLocation(tmpFile, 4, 5)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 4 {
		t.Errorf("Location.Line = %d, want %d", err.Location.Line, 4)
	}
	if len(err.Context) != 5 {
		t.Errorf("Context lines = %d, want 5", len(err.Context))
	}
}

func TestError_Builders(t *testing.T) {
	err := New("E001").
		WithSuggestion("Name a property").
		WithExample("bind: name").
		WithDetail("Custom detail")

	if err.Suggestion != "Name a property" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != "bind: name" {
		t.Errorf("Example = %q", err.Example)
	}
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := New("E002")
	outer := New("E001").Wrap(inner)

	if outer.Wrapped != inner {
		t.Error("Wrapped error mismatch")
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
}

type codedError struct {
	code string
}

func (e *codedError) Error() string { return "coded failure" }
func (e *codedError) Code() string  { return e.code }

func TestFromError(t *testing.T) {
	if FromError(nil, "E001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("E001")
	if FromError(fmt.Errorf("context: %w", e), "E300") != e {
		t.Error("FromError should return *Error from the chain as-is")
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error uses fallback", stderrors.New("boom"), "E300"},
		{"registered code wins", &codedError{code: "E002"}, "E002"},
		{"wrapped code", fmt.Errorf("render: %w", &codedError{code: "E001"}), "E001"},
		{"unregistered code uses fallback", &codedError{code: "X1"}, "E300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err, "E300")
			if got.Code != tt.want {
				t.Errorf("Code = %q, want %q", got.Code, tt.want)
			}
			if got.Wrapped != tt.err {
				t.Error("original error should be wrapped")
			}
		})
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "demo.yaml", Line: 10, Column: 5}, "demo.yaml:10:5"},
		{"without column", &Location{File: "demo.yaml", Line: 10}, "demo.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "demo.yaml")
	content := `steps:
  - op: set
  - op: frob
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E202").
		WithLocation(tmpFile, 3, 5).
		WithSuggestion("Use one of set, add, remove, put, clear, replace").
		WithExample("- op: set\n  path: name\n  value: x").
		Wrap(stderrors.New(`unknown op "frob"`))

	formatted := err.Format()

	for _, want := range []string{"E202", "Invalid scenario step", tmpFile, "Hint:", "Example:", "Cause:", `unknown op "frob"`, "^"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E001").WithLocation("demo.yaml", 10, 5)
	want := "demo.yaml:10:5: E001: Binding configuration error"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	json := New("E001").WithLocation("demo.yaml", 10, 5).FormatJSON()

	for _, want := range []string{`"code":"E001"`, `"category":"engine"`, `"message":"Binding configuration error"`, `"location":`} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s", want)
		}
	}
}

func TestFormatJSONCause(t *testing.T) {
	got := New("E205").WithDetail(`No "x" in path`).Wrap(stderrors.New("boom")).FormatJSON()
	want := `{"code":"E205","category":"scenario","message":"Step target not found","detail":"No \"x\" in path","cause":"boom"}`
	if got != want {
		t.Errorf("FormatJSON() = %s, want %s", got, want)
	}
}

func TestRenderAs(t *testing.T) {
	DisableColors()
	defer EnableColors()

	coded := New("E300").Wrap(stderrors.New("bad flag"))
	tests := []struct {
		name   string
		err    error
		format string
		want   string
	}{
		{"compact", coded, OutputCompact, "E300: Invalid arguments: bad flag\n"},
		{"json", coded, OutputJSON, `{"code":"E300","category":"cli","message":"Invalid arguments","detail":"The command was called with invalid arguments.","cause":"bad flag"}` + "\n"},
		{"plain compact", stderrors.New("plain"), OutputCompact, "plain\n"},
		{"plain json", stderrors.New("plain"), OutputJSON, `{"message":"plain"}` + "\n"},
		{"nil", nil, OutputJSON, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderAs(tt.err, tt.format); got != tt.want {
				t.Errorf("RenderAs() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := RenderAs(coded, "unknown"); got != coded.Format() {
		t.Errorf("RenderAs(unknown) = %q, want Format()", got)
	}
	for _, f := range []string{OutputText, OutputCompact, OutputJSON} {
		if !ValidOutput(f) {
			t.Errorf("ValidOutput(%q) = false", f)
		}
	}
	if ValidOutput("xml") {
		t.Error("ValidOutput(xml) = true")
	}
}

func TestRender(t *testing.T) {
	DisableColors()
	defer EnableColors()

	if got := Render(stderrors.New("plain")); !strings.Contains(got, "ERROR: plain") {
		t.Errorf("Render(plain) = %q", got)
	}
	if got := Render(fmt.Errorf("ctx: %w", New("E100"))); !strings.Contains(got, "Config file not found") {
		t.Errorf("Render(wrapped) = %q", got)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 || codes[0] != "E001" {
		t.Errorf("GetAllCodes() = %v, want sorted codes starting with E001", codes)
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E002")
	if !ok {
		t.Fatal("E002 should exist")
	}
	if template.Message != "Context resolution error" {
		t.Errorf("Message = %q", template.Message)
	}
	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom test error",
		Detail:   "This is a test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got = wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
