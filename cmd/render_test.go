package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/test"
)

func TestRenderPlantUMLCommand(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "login.puml")

	if _, err := execute(t, "render", "plantuml", "--output", outputPath, test.FixturePath(t, "login.yaml")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}

	want := test.ReadGolden(t, "login.plantuml.golden")
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMermaidCommandStdout(t *testing.T) {
	got, err := execute(t, "render", "mermaid", test.FixturePath(t, "login.yaml"))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := test.ReadGolden(t, "login.mermaid.golden")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNoSimplify(t *testing.T) {
	got, err := execute(t, "render", "plantuml", "--simplify=false", test.FixturePath(t, "login.yaml"))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := "Actor -> LoginController#FFE0A7 : [[/src/com/example/web/LoginController.java#com.example.web.LoginController.login(String,String) com.example.web.LoginController.login(String,String)]]\n"
	if !strings.Contains(got, want) {
		t.Fatalf("expected full signature call line %q in:\n%s", want, got)
	}
}

func TestRenderOutputDir(t *testing.T) {
	inputDir := t.TempDir()
	source, err := os.ReadFile(test.FixturePath(t, "login.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{
		filepath.Join(inputDir, "first.yaml"),
		filepath.Join(inputDir, "second.yml"),
	}
	for _, input := range inputs {
		if err := os.WriteFile(input, source, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	outputDir := filepath.Join(t.TempDir(), "diagrams")
	args := append([]string{"render", "plantuml", "--output-dir", outputDir}, inputs...)
	if _, err := execute(t, args...); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := test.ReadGolden(t, "login.plantuml.golden")
	for _, name := range []string{"first.puml", "second.puml"} {
		got, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, string(got)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestRenderOutputDirCollision(t *testing.T) {
	source, err := os.ReadFile(test.FixturePath(t, "login.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		inputs []string
	}{
		{"SameBaseName", []string{filepath.Join("a", "tree.yaml"), filepath.Join("b", "tree.yaml")}},
		{"SameStem", []string{"tree.yaml", "tree.yml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputDir := t.TempDir()
			var inputs []string
			for _, name := range tt.inputs {
				path := filepath.Join(inputDir, name)
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, source, 0o644); err != nil {
					t.Fatal(err)
				}
				inputs = append(inputs, path)
			}

			outputDir := filepath.Join(t.TempDir(), "diagrams")
			args := append([]string{"render", "plantuml", "--output-dir", outputDir}, inputs...)
			_, err := execute(t, args...)
			if !errors.Is(err, errOutputCollision) {
				t.Fatalf("expected output collision, got %v", err)
			}
			if !strings.Contains(err.Error(), "tree.puml") {
				t.Fatalf("expected the colliding file in %v", err)
			}
			if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
				t.Fatalf("expected no output directory, stat returned %v", err)
			}
		})
	}
}

func TestRenderFlagValidation(t *testing.T) {
	login := test.FixturePath(t, "login.yaml")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "OutputWithManyInputs",
			args:    []string{"render", "plantuml", "-o", "out.puml", login, login},
			wantErr: errSingleInput,
		},
		{
			name:    "CopyWithManyInputs",
			args:    []string{"render", "plantuml", "--copy", login, login},
			wantErr: errSingleInput,
		},
		{
			name:    "ManyInputsWithoutOutputDir",
			args:    []string{"render", "mermaid", login, login},
			wantMsg: "2 input files need --output-dir",
		},
		{
			name:    "WatchWithoutOutput",
			args:    []string{"render", "mermaid", "--watch", login},
			wantErr: errWatchOutput,
		},
		{
			name:    "OutputWithOutputDir",
			args:    []string{"render", "plantuml", "-o", "out.puml", "--output-dir", t.TempDir(), login},
			wantErr: errOutputDir,
		},
		{
			name:    "CopyWithOutputDir",
			args:    []string{"render", "plantuml", "--copy", "--output-dir", t.TempDir(), login},
			wantErr: errOutputDir,
		},
		{
			name:    "WatchWithOutputDir",
			args:    []string{"render", "mermaid", "--watch", "--output-dir", t.TempDir(), login},
			wantErr: errOutputDir,
		},
		{
			name:    "NoInput",
			args:    []string{"render", "plantuml"},
			wantMsg: "requires at least 1 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestRenderUnknownInputFormat(t *testing.T) {
	input := filepath.Join(t.TempDir(), "tree.txt")
	if err := os.WriteFile(input, []byte("method: {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "render", "plantuml", input)
	if !errors.Is(err, calltree.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		ext   string
		want  string
	}{
		{"login.yaml", ".puml", "login.puml"},
		{"/tmp/trees/login.tree.json", ".mmd", "login.tree.mmd"},
		{"noext", ".puml", "noext.puml"},
	}

	for _, tt := range tests {
		if got := outputName(tt.input, tt.ext); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}
