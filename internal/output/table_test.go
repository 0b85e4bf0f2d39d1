package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRenderText(t *testing.T) {
	table := NewTable("Files",
		[]string{"Path", "Lines"},
		[][]string{{"src/app.ts", "12"}, {"src/db.ts", "3"}},
		[]string{"Total", "15"},
		nil)

	var buf bytes.Buffer
	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Files\n=====", "PATH", "src/app.ts", "src/db.ts", "15"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Files",
		[]string{"Path", "Lines"},
		[][]string{{"src/app.ts", "12"}},
		[]string{"1 file", "12"},
		nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	want := "## Files\n\n| Path | Lines |\n| --- | --- |\n| src/app.ts | 12 |\n| 1 file | 12 |\n\n"
	if buf.String() != want {
		t.Errorf("RenderMarkdown() = %q, want %q", buf.String(), want)
	}
}

func TestTableRenderMarkdownEscapesPipes(t *testing.T) {
	table := NewTable("", []string{"Type"}, [][]string{{"string | null"}}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	if !strings.Contains(buf.String(), `| string \| null |`) {
		t.Errorf("RenderMarkdown() = %q, want the pipe escaped", buf.String())
	}
}

func TestTableRenderData(t *testing.T) {
	t.Run("rows as maps", func(t *testing.T) {
		table := NewTable("", []string{"Name", "Value"}, [][]string{{"a", "1"}, {"b"}}, nil, nil)
		data, ok := table.RenderData().([]map[string]string)
		if !ok {
			t.Fatalf("RenderData() type = %T", table.RenderData())
		}
		if len(data) != 2 || data[0]["Value"] != "1" || data[1]["Name"] != "b" {
			t.Errorf("RenderData() = %v", data)
		}
		if _, ok := data[1]["Value"]; ok {
			t.Error("short rows should not produce missing columns")
		}
	})

	t.Run("explicit data", func(t *testing.T) {
		raw := map[string]int{"files": 3}
		table := NewTable("", []string{"A"}, nil, nil, raw)
		if got, ok := table.RenderData().(map[string]int); !ok || got["files"] != 3 {
			t.Errorf("RenderData() = %v, want the wrapped data", table.RenderData())
		}
	})
}

func TestHeading(t *testing.T) {
	var buf bytes.Buffer
	Heading(&buf, "Layers", false)
	if got := buf.String(); got != "Layers\n======\n\n" {
		t.Errorf("Heading() = %q", got)
	}
}
