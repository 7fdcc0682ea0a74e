package queries

import (
	"io/fs"
	"reflect"
	"strings"
	"testing"
)

func TestQueryHelperPathsAreReadable(t *testing.T) {
	var paths []string
	collectQueryPaths(reflect.ValueOf(QueryHelper), &paths)

	if len(paths) == 0 {
		t.Fatal("no query paths in QueryHelper found")
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			if content := strings.TrimSpace(Get(path)); content == "" {
				t.Errorf("query file %q is empty", path)
			}
		})
	}
}

// every embedded sql file has to be reachable from QueryHelper, forcing 1:1
func TestQueryHelperMapsEveryEmbeddedFile(t *testing.T) {
	var paths []string
	collectQueryPaths(reflect.ValueOf(QueryHelper), &paths)

	mapped := make(map[string]bool, len(paths))
	for _, p := range paths {
		if mapped[p] {
			t.Fatalf("query path %s is mapped more than once", p)
		}
		mapped[p] = true
	}

	count := 0
	err := fs.WalkDir(Files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}

		count++
		if !mapped[path] {
			t.Errorf("sql file %s is not mapped in QueryHelper", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("error walking embedded files: %v", err)
	}

	if count != len(paths) {
		t.Fatalf("number of embedded .sql files does not match number of query paths (%d != %d)", count, len(paths))
	}
}

// collectQueryPaths walks the QueryHelper struct tree and appends every string field value
func collectQueryPaths(v reflect.Value, paths *[]string) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		if field.Kind() == reflect.String {
			if s := field.String(); s != "" {
				*paths = append(*paths, s)
			}
		} else {
			collectQueryPaths(field, paths)
		}
	}
}
