package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid simple path",
			path: "palette/colors_vartext.go",
		},
		{
			name: "valid nested path",
			path: "a/b/c/d/file.go",
		},
		{
			name: "valid single file",
			path: "vartext_gen.go",
		},
		{
			name: "single character filename",
			path: "a",
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
			errMsg:  "empty",
		},
		{
			name:    "absolute path",
			path:    "/absolute/path.go",
			wantErr: true,
			errMsg:  "absolute paths not allowed",
		},
		{
			name:    "windows drive prefix",
			path:    "C:/Windows/file.go",
			wantErr: true,
			errMsg:  "absolute paths not allowed",
		},
		{
			name:    "lowercase windows drive prefix",
			path:    "c:/path/file.go",
			wantErr: true,
			errMsg:  "absolute paths not allowed",
		},
		{
			name:    "path traversal in the middle",
			path:    "foo/../bar.go",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "path starting with ..",
			path:    "../foo/bar.go",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "bare ..",
			path:    "..",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "current dir prefix",
			path:    "./foo/bar.go",
			wantErr: true,
			errMsg:  "not clean",
		},
		{
			name:    "double slashes",
			path:    "foo//bar.go",
			wantErr: true,
			errMsg:  "not clean",
		},
		{
			name:    "trailing slash",
			path:    "foo/bar/",
			wantErr: true,
			errMsg:  "not clean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidatePath(%q) error = %v, want error containing %q", tt.path, err, tt.errMsg)
				}
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	t.Run("basic write and read", func(t *testing.T) {
		s := NewMemorySink()
		ctx := context.Background()

		content := []byte("package palette\n")
		if err := s.WriteFile(ctx, "colors_vartext.go", content); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got := s.Get("colors_vartext.go")
		if string(got) != string(content) {
			t.Errorf("Get() = %q, want %q", got, content)
		}
	})

	t.Run("get non-existent file", func(t *testing.T) {
		s := NewMemorySink()
		if got := s.Get("nonexistent.go"); got != nil {
			t.Errorf("Get() = %v, want nil", got)
		}
	})

	t.Run("overwrite existing file", func(t *testing.T) {
		s := NewMemorySink()
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("first")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := s.WriteFile(ctx, "out.go", []byte("second")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if got := s.Get("out.go"); string(got) != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("Files returns copy", func(t *testing.T) {
		s := NewMemorySink()
		ctx := context.Background()

		if err := s.WriteFile(ctx, "a.go", []byte("aaa")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := s.WriteFile(ctx, "b.go", []byte("bbb")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		files := s.Files()
		if len(files) != 2 {
			t.Errorf("Files() length = %d, want 2", len(files))
		}

		files["c.go"] = []byte("ccc")
		if len(s.Files()) != 2 {
			t.Error("modifying the returned map affected the sink")
		}
	})

	t.Run("Get returns copy", func(t *testing.T) {
		s := NewMemorySink()
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("original")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got := s.Get("out.go")
		got[0] = 'X'

		if got2 := s.Get("out.go"); string(got2) != "original" {
			t.Errorf("Get() = %q, want %q (modification leaked)", got2, "original")
		}
	})

	t.Run("Reset clears all files", func(t *testing.T) {
		s := NewMemorySink()
		ctx := context.Background()

		if err := s.WriteFile(ctx, "a.go", []byte("aaa")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		s.Reset()
		if len(s.Files()) != 0 {
			t.Errorf("Files() after Reset() length = %d, want 0", len(s.Files()))
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		s := NewMemorySink()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := s.WriteFile(ctx, "out.go", []byte("content")); err == nil {
			t.Error("WriteFile() with cancelled context should return error")
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		s := NewMemorySink()
		if err := s.WriteFile(context.Background(), "../escape.go", []byte("content")); err == nil {
			t.Error("WriteFile() with invalid path should return error")
		}
	})
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	const numGoroutines = 100
	const numWrites = 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numWrites; j++ {
				path := filepath.Join("dir", "file"+string(rune('0'+id%10))+".go")
				if err := s.WriteFile(ctx, path, []byte("content")); err != nil {
					t.Errorf("WriteFile() error = %v", err)
				}
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < numWrites; j++ {
				_ = s.Files()
				_ = s.Get("dir/file0.go")
			}
		}()
	}

	wg.Wait()

	if len(s.Files()) == 0 {
		t.Error("no files written during concurrent test")
	}
}

func TestFilesystemSink(t *testing.T) {
	t.Run("basic write and read", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		ctx := context.Background()

		content := []byte("package palette\n")
		if err := s.WriteFile(ctx, "colors_vartext.go", content); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(tmpDir, "colors_vartext.go"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("ReadFile() = %q, want %q", got, content)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		ctx := context.Background()

		if err := s.WriteFile(ctx, "a/b/c/out.go", []byte("nested")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(tmpDir, "a", "b", "c", "out.go"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "nested" {
			t.Errorf("ReadFile() = %q, want %q", got, "nested")
		}
	})

	t.Run("respects file mode", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		s.Mode = 0600
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("content")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		info, err := os.Stat(filepath.Join(tmpDir, "out.go"))
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if mode := info.Mode().Perm(); mode != 0600 {
			t.Errorf("file mode = %o, want %o", mode, 0600)
		}
	})

	t.Run("uses default mode when Mode is zero", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		s.Mode = 0
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("content")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		info, err := os.Stat(filepath.Join(tmpDir, "out.go"))
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if mode := info.Mode().Perm(); mode != 0644 {
			t.Errorf("file mode = %o, want default 0644", mode)
		}
	})

	t.Run("overwrite by default", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("first")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := s.WriteFile(ctx, "out.go", []byte("second")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(tmpDir, "out.go"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "second" {
			t.Errorf("ReadFile() = %q, want %q", got, "second")
		}
	})

	t.Run("Overwrite=false prevents overwriting", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		s.Overwrite = false
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("first")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		err := s.WriteFile(ctx, "out.go", []byte("second"))
		if err == nil {
			t.Fatal("WriteFile() with Overwrite=false should return error for existing file")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("WriteFile() error = %v, want error containing 'already exists'", err)
		}
	})

	t.Run("context cancellation before write", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := s.WriteFile(ctx, "out.go", []byte("content")); err == nil {
			t.Error("WriteFile() with cancelled context should return error")
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		tmpDir := t.TempDir()
		s := NewFilesystemSink(tmpDir)
		ctx := context.Background()

		if err := s.WriteFile(ctx, "out.go", []byte("content")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".tmp") || strings.HasPrefix(entry.Name(), ".vartext-") {
				t.Errorf("found temp file after write: %s", entry.Name())
			}
		}
	})
}

func TestFilesystemSink_Concurrent(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewFilesystemSink(tmpDir)
	ctx := context.Background()

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			path := filepath.Join("dir", "file"+string(rune('0'+(id%10)))+".go")
			if err := s.WriteFile(ctx, path, []byte("content")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}(i)
	}

	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(tmpDir, "dir"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) == 0 {
		t.Error("no files written during concurrent test")
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") || strings.HasPrefix(entry.Name(), ".vartext-") {
			t.Errorf("found temp file after concurrent writes: %s", entry.Name())
		}
	}
}

func TestFilesystemSink_PathSecurity(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewFilesystemSink(tmpDir)
	ctx := context.Background()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "normal path",
			path: "safe/path.go",
		},
		{
			name:    "path with multiple ..",
			path:    "a/../../escape.go",
			wantErr: true,
		},
		{
			name:    "absolute path",
			path:    "/etc/passwd",
			wantErr: true,
		},
		{
			name:    "windows absolute path",
			path:    "C:/Windows/System32/config",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.WriteFile(ctx, tt.path, []byte("test"))
			if (err != nil) != tt.wantErr {
				t.Errorf("WriteFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestFilesystemSink_ErrorConditions(t *testing.T) {
	t.Run("permission denied creating directories", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("skipping test when running as root")
		}

		tmpDir := t.TempDir()
		restrictedDir := filepath.Join(tmpDir, "restricted")
		if err := os.Mkdir(restrictedDir, 0000); err != nil {
			t.Fatalf("failed to create restricted directory: %v", err)
		}
		defer os.Chmod(restrictedDir, 0755)

		s := NewFilesystemSink(restrictedDir)
		if err := s.WriteFile(context.Background(), "subdir/out.go", []byte("content")); err == nil {
			t.Error("WriteFile() should fail when it cannot create subdirectories")
		}
	})

	t.Run("permission denied writing file", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("skipping test when running as root")
		}

		tmpDir := t.TempDir()
		restrictedDir := filepath.Join(tmpDir, "restricted")
		if err := os.Mkdir(restrictedDir, 0500); err != nil {
			t.Fatalf("failed to create restricted directory: %v", err)
		}
		defer os.Chmod(restrictedDir, 0755)

		s := NewFilesystemSink(restrictedDir)
		if err := s.WriteFile(context.Background(), "out.go", []byte("content")); err == nil {
			t.Error("WriteFile() should fail when it cannot write to the directory")
		}
	})
}
