package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var sample = []task.Task{
	{Text: "buy milk", CreatedAt: 1700000000000},
	{Text: "walk dog", Completed: true, CreatedAt: 1700000001000},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"json", FormatJSON},
		{"YAML", FormatYAML},
		{"yml", FormatYAML},
		{"md", FormatMarkdown},
		{" pdf ", FormatPDF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}

	_, err := ParseFormat("xml")
	if !errors.Is(err, clierr.New(clierr.InvalidFormat, "")) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

func TestWriteJSONMatchesPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, "Tasks", sample, Options{}); err != nil {
		t.Fatal(err)
	}
	var got []task.Task
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != sample[1] {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), `"createdAt": 1700000000000`) {
		t.Errorf("JSON field names changed:\n%s", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, FormatJSON, "Tasks", nil, Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, "Tasks", sample, Options{}); err != nil {
		t.Fatal(err)
	}
	var got []task.Task
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != sample[0] || !got[1].Completed {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), "created_at:") {
		t.Errorf("YAML keys:\n%s", buf.String())
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, "Chores", sample, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"# Chores", "2 tasks", "- [ ] buy milk", "- [x] walk dog"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestPDF(t *testing.T) {
	for name, tasks := range map[string][]task.Task{"list": sample, "empty": nil} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PDF(&buf, "Tasks", view.Render(tasks), ""); err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
			}
		})
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "xml", "Tasks", sample, Options{}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestUnsupported(t *testing.T) {
	v := view.Render([]task.Task{
		{Text: "café au lait"},
		{Text: "买牛奶"},
		{Text: "plain"},
		{Text: "party 🎉"},
		{Text: "“quoted” – €5"},
	})
	got := Unsupported(v)
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Unsupported = %v, want [2 4]", got)
	}
}

func TestPDFMissingFont(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.ttf")
	err := Write(&bytes.Buffer{}, FormatPDF, "Tasks", sample, Options{FontFile: missing})
	if err == nil || !strings.Contains(err.Error(), "loading PDF font") {
		t.Errorf("error = %v, want a font loading error", err)
	}
}
