package filter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/s0up4200/rtclient/artifactory"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasSuffix(Name, ".jar")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `containsFold(Name, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: `Title == "x"`,
			wantErr:    true,
		},
		{
			name:       "not a boolean",
			expression: `Size + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `not Folder and Size > 10 * MB and LastModified < daysAgo(30)`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != tt.expression {
				t.Errorf("Expression() = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	item := Item{
		URI:          "/org/acme/app-1.2.0.jar",
		Size:         20 * MB,
		LastModified: time.Now().AddDate(0, -2, 0),
		SHA1:         "abc",
		SHA256:       "def",
	}

	tests := []struct {
		expression string
		want       bool
	}{
		{`Name == "app-1.2.0.jar"`, true},
		{`Ext == "jar"`, true},
		{`glob("app-*.jar", Name)`, true},
		{`glob("*.war", Name)`, false},
		{`hasPrefix(URI, "/ORG/")`, true},
		{`hasSuffix(Name, ".JAR")`, true},
		{`containsFold(URI, "ACME")`, true},
		{`containsFold(URI, "beta")`, false},
		{`Name endsWith ".jar"`, true},
		{`URI startsWith "/org/" and URI contains "acme"`, true},
		{`Size > 10 * MB`, true},
		{`Size > 1 * GB`, false},
		{`LastModified < daysAgo(30)`, true},
		{`daysSince(LastModified) > 365`, false},
		{`LastModified > parseDate("2000-01-01")`, true},
		{`Folder`, false},
		{`SHA256 == "def" and Item.SHA1 == "abc"`, true},
		{`Name matches "^app-[0-9.]+\\.jar$"`, true},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := filter.Evaluate(item); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Folder`)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := compiler.Compile(`Folder`)
	if first != again {
		t.Errorf("expected cached filter to be reused")
	}

	compiler.Compile(`not Folder`)
	compiler.Compile(`Size > 0`)
	if compiler.Size() != 2 {
		t.Errorf("Size() = %d, want 2", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", compiler.Size())
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isSnapshot": func(name string) bool { return strings.Contains(name, "SNAPSHOT") },
	}))

	filter, err := compiler.Compile(`isSnapshot(Name)`)
	if err != nil {
		t.Fatal(err)
	}
	if !filter.Evaluate(Item{URI: "/lib-1.0-SNAPSHOT.jar"}) {
		t.Errorf("expected snapshot to match")
	}
}

func TestSelect(t *testing.T) {
	compiler := NewExprCompiler()
	filter, err := compiler.Compile(`hasSuffix(Name, ".jar")`)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("small list keeps order", func(t *testing.T) {
		items := []Item{{URI: "/b.jar"}, {URI: "/a.txt"}, {URI: "/a.jar"}}
		got, err := Select(context.Background(), filter, items)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].URI != "/b.jar" || got[1].URI != "/a.jar" {
			t.Errorf("unexpected selection: %+v", got)
		}
	})

	t.Run("large list", func(t *testing.T) {
		items := make([]Item, 1000)
		for i := range items {
			ext := ".txt"
			if i%4 == 0 {
				ext = ".jar"
			}
			items[i] = Item{URI: fmt.Sprintf("/f%04d%s", i, ext)}
		}
		got, err := Select(context.Background(), filter, items)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 250 {
			t.Fatalf("len = %d, want 250", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].URI >= got[i].URI {
				t.Fatalf("order not preserved at %d", i)
			}
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Select(ctx, filter, []Item{{URI: "/a.jar"}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("evaluation error", func(t *testing.T) {
		failing := NewExprCompiler(WithCustomFunctions(map[string]any{
			"lookup": func(name string) (bool, error) { return false, errors.New("lookup failed") },
		}))
		f, err := failing.Compile(`lookup(Name)`)
		if err != nil {
			t.Fatal(err)
		}
		_, err = Select(context.Background(), f, []Item{{URI: "/a.jar"}})
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			t.Fatalf("expected *EvaluationError, got %v", err)
		}
		if evalErr.ItemURI != "/a.jar" {
			t.Errorf("ItemURI = %q", evalErr.ItemURI)
		}
		if f.Evaluate(Item{URI: "/a.jar"}) {
			t.Errorf("failed evaluation must not match")
		}
	})
}

func TestParseFileList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"uri": "http://localhost/artifactory/api/storage/libs",
			"created": "2024-01-10T09:00:00.000Z",
			"files": [
				{"uri": "/org", "size": -1, "lastModified": "2024-01-10T09:00:00.000Z", "folder": true},
				{"uri": "/org/app.jar", "size": 2048, "lastModified": "2024-01-11T10:30:00.123+02:00",
				 "folder": false, "sha1": "s1", "sha2": "s2"}
			]
		}`)
	}))
	defer server.Close()

	client, err := artifactory.NewFromMap(map[string]any{
		artifactory.KeyURL:    server.URL,
		artifactory.KeyAPIKey: "k",
	})
	if err != nil {
		t.Fatal(err)
	}
	result, err := client.Artifacts.FileList(context.Background(), "libs", "", artifactory.WithOptions("&deep=1"))
	if err != nil {
		t.Fatal(err)
	}

	items, err := ParseFileList(result)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if !items[0].Folder || items[1].Folder {
		t.Errorf("folder flags wrong: %+v", items)
	}
	if items[1].SHA256 != "s2" || items[1].Size != 2048 {
		t.Errorf("unexpected item: %+v", items[1])
	}
	want := time.Date(2024, 1, 11, 8, 30, 0, 123000000, time.UTC)
	if !items[1].LastModified.Equal(want) {
		t.Errorf("LastModified = %v, want %v", items[1].LastModified, want)
	}

	paths := Paths("libs-folder", items)
	if paths[1] != "libs-folder/org/app.jar" {
		t.Errorf("Paths()[1] = %q", paths[1])
	}
}

func TestParseTimeFallback(t *testing.T) {
	got, err := parseTime("2024-01-11T10:30:00.000+0200")
	if err != nil {
		t.Fatal(err)
	}
	if got.UTC().Hour() != 8 {
		t.Errorf("hour = %d, want 8", got.UTC().Hour())
	}
	if _, err := parseTime("yesterday"); err == nil {
		t.Errorf("expected error for invalid timestamp")
	}
}
