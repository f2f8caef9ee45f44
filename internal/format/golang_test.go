package format

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/unbound-force/kempt/internal/loader"
)

func TestFormatGo_Statement(t *testing.T) {
	ctx := context.Background()
	f := New(loader.Go, LevelSimplify, nil)
	// Output always ends in exactly one newline.
	for _, src := range []string{"x=1", "x=1\n", "x=1\n\n\n"} {
		got, err := f.Format(ctx, src)
		if err != nil {
			t.Fatalf("Format(%q) failed: %v", src, err)
		}
		if got != "x = 1\n" {
			t.Errorf("Format(%q) = %q, want %q", src, got, "x = 1\n")
		}
	}
}

func TestFormatGo_Levels(t *testing.T) {
	ctx := context.Background()
	src := "var xs = []point{point{1, 2}, point{3, 4}}\n"
	tests := []struct {
		level Level
		want  string
	}{
		{LevelLayout, "var xs = []point{point{1, 2}, point{3, 4}}\n"},
		{LevelSimplify, "var xs = []point{{1, 2}, {3, 4}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got, err := New(loader.Go, tt.level, nil).Format(ctx, src)
			if err != nil {
				t.Fatalf("Format() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatGo_Simplify(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "slice to len",
			src:  "y := s[1:len(s)]\n",
			want: "y := s[1:]\n",
		},
		{
			name: "slice of other len kept",
			src:  "y := s[1:len(t)]\n",
			want: "y := s[1:len(t)]\n",
		},
		{
			name: "range blank value",
			src:  "for i, _ := range xs {\nuse(i)\n}\n",
			want: "for i := range xs {\n\tuse(i)\n}\n",
		},
		{
			name: "range blank key",
			src:  "for _ = range xs {\n}\n",
			want: "for range xs {\n}\n",
		},
		{
			name: "pointer elements",
			src:  "var ps = []*point{&point{1, 2}}\n",
			want: "var ps = []*point{{1, 2}}\n",
		},
		{
			name: "map keys and values",
			src:  "var m = map[key]val{key{1}: val{2}}\n",
			want: "var m = map[key]val{{1}: {2}}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(loader.Go, LevelSimplify, nil).Format(ctx, tt.src)
			if err != nil {
				t.Fatalf("Format() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatGo_SortsImports(t *testing.T) {
	ctx := context.Background()
	src := "package main\n\nimport (\n\t\"os\"\n\t\"fmt\"\n)\n\nfunc main() { fmt.Println(os.Args) }\n"
	got, err := New(loader.Go, LevelSimplify, nil).Format(ctx, src)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if strings.Index(got, `"fmt"`) > strings.Index(got, `"os"`) {
		t.Errorf("expected sorted imports, got:\n%s", got)
	}
}

func TestFormatGo_AggressiveRemovesUnusedImports(t *testing.T) {
	ctx := context.Background()
	src := "package main\n\nimport (\n\t\"fmt\"\n\t\"os\"\n)\n\nfunc main() { fmt.Println() }\n"
	got, err := New(loader.Go, LevelAggressive, nil).Format(ctx, src)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if strings.Contains(got, `"os"`) {
		t.Errorf("expected unused import to be removed, got:\n%s", got)
	}
	if !strings.Contains(got, `"fmt"`) {
		t.Errorf("expected used import to be kept, got:\n%s", got)
	}
}

func TestFormatGo_Idempotent(t *testing.T) {
	ctx := context.Background()
	inputs := []string{
		"x=1\n",
		"func  f(a int)int{if a>1{return a}\nreturn 0}\n",
		"package p\nimport \"strings\"\nvar s=strings.ToUpper( \"a\" )\n",
		"type T struct{A int;B string}\nvar ts=[]T{T{1,\"a\"}}\n",
		"for i,_:=range xs{\n_ = i\n}\n",
	}
	for _, level := range []Level{LevelLayout, LevelSimplify, LevelAggressive} {
		f := New(loader.Go, level, nil)
		for _, src := range inputs {
			once, err := f.Format(ctx, src)
			if err != nil {
				t.Fatalf("[%s] Format(%q) failed: %v", level, src, err)
			}
			twice, err := f.Format(ctx, once)
			if err != nil {
				t.Fatalf("[%s] re-Format(%q) failed: %v", level, once, err)
			}
			if once != twice {
				t.Errorf("[%s] not idempotent:\nfirst:  %q\nsecond: %q", level, once, twice)
			}
		}
	}
}

func TestFormatGo_ErrorIsLogged(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := charmlog.NewWithOptions(&logs, charmlog.Options{Level: charmlog.ErrorLevel})

	_, err := New(loader.Go, LevelSimplify, logger).Format(ctx, "func (\n")
	if err == nil {
		t.Fatal("expected error for unparseable source")
	}
	if !strings.Contains(err.Error(), "formatting code") {
		t.Errorf("unexpected error message: %s", err)
	}
	if !strings.Contains(logs.String(), "error formatting code") {
		t.Errorf("expected error to be logged, got %q", logs.String())
	}
}

func TestFormatGo_Empty(t *testing.T) {
	ctx := context.Background()
	_, err := New(loader.Go, LevelSimplify, nil).Format(ctx, "\n\n")
	if !errors.Is(err, loader.ErrEmpty) {
		t.Errorf("Format(empty) error = %v, want ErrEmpty", err)
	}
}

func TestLevel_Valid(t *testing.T) {
	if !LevelAggressive.Valid() || Level(3).Valid() || Level(-1).Valid() {
		t.Error("unexpected Valid() result")
	}
	f := &Formatter{Level: Level(9)}
	if f.level() != DefaultLevel {
		t.Errorf("out-of-range level = %s, want %s", f.level(), DefaultLevel)
	}
}
