package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/config"
)

func TestPaths(t *testing.T) {
	t.Setenv("CHATSYNC_HOME", "/var/lib/chatsync")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir", Dir("main"), "/var/lib/chatsync/sessions/main"},
		{"socket", SocketPath("work"), "/var/lib/chatsync/sessions/work/chatd.sock"},
		{"lock", LockPath("work"), "/var/lib/chatsync/sessions/work/LOCK"},
		{"archive", ArchivePath("work"), "/var/lib/chatsync/sessions/work/archive.db"},
		{"log", LogPath("work"), "/var/lib/chatsync/sessions/work/logs/chatd.log"},
		{"config", ConfigPath(), "/var/lib/chatsync/config.toml"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaultBaseDir(t *testing.T) {
	t.Setenv("CHATSYNC_HOME", "")
	if got := BaseDir(); !strings.HasSuffix(got, ".chatsync") {
		t.Errorf("BaseDir() = %q, want suffix .chatsync", got)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv("CHATSYNC_HOME", t.TempDir())
	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{Dir("test"), filepath.Dir(LogPath("test"))} {
		info, err := os.Stat(d)
		if err != nil {
			t.Fatalf("%s not created: %v", d, err)
		}
		if info.Mode().Perm() != 0700 {
			t.Errorf("%s mode = %o, want 0700", d, info.Mode().Perm())
		}
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("CHATSYNC_HOME", t.TempDir())

	got, err := Resolve("")
	if err != nil || got != DefaultSessionName {
		t.Errorf("Resolve(\"\") without config = %q, %v", got, err)
	}

	cfg := config.Default()
	cfg.DefaultSession = "work"
	if err := config.Save(ConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}
	if got, _ := Resolve(""); got != "work" {
		t.Errorf("Resolve(\"\") = %q, want work from config", got)
	}
	if got, _ := Resolve("override"); got != "override" {
		t.Errorf("Resolve(override) = %q", got)
	}
	if _, err := Resolve("Bad Name"); err == nil {
		t.Error("Resolve should validate the name")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "main", false},
		{"numbers", "work123", false},
		{"hyphen and underscore", "my-session_2", false},
		{"max length", strings.Repeat("a", 64), false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"dot", "my.session", true},
		{"too long", strings.Repeat("a", 65), true},
		{"slash", "my/session", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestStaticProvider(t *testing.T) {
	var p Static
	if _, err := p.Identity(); !chat.IsAuth(err) {
		t.Fatalf("zero Static: err = %v, want AuthError", err)
	}

	p.Set(Identity{UserID: 3, Token: "secret"})
	id, err := p.Identity()
	if err != nil {
		t.Fatal(err)
	}
	if id.UserID != 3 || id.Token != "secret" {
		t.Errorf("Identity() = %+v", id)
	}

	p.Clear()
	if _, err := p.Identity(); !chat.IsAuth(err) {
		t.Errorf("after Clear: err = %v, want AuthError", err)
	}

	if _, err := NewStatic(Identity{UserID: 3}).Identity(); !chat.IsAuth(err) {
		t.Error("identity without token should be rejected")
	}
}
