package config

import (
	"path/filepath"
	"testing"
)

func TestResolveDefaultLogDir(t *testing.T) {
	home := func() (string, error) { return "/home/u", nil }
	noEnv := func(string) string { return "" }

	cases := []struct {
		name string
		opts logDirResolverOptions
		want string
	}{
		{
			name: "darwin",
			opts: logDirResolverOptions{GOOS: "darwin", userHomeDir: home, getenv: noEnv},
			want: filepath.Join("/home/u", "Library", "Logs", "quickdim"),
		},
		{
			name: "linux with XDG_STATE_HOME",
			opts: logDirResolverOptions{
				GOOS:        "linux",
				userHomeDir: home,
				getenv: func(key string) string {
					if key == "XDG_STATE_HOME" {
						return "/state"
					}
					return ""
				},
			},
			want: filepath.Join("/state", "quickdim", "logs"),
		},
		{
			name: "linux without XDG_STATE_HOME",
			opts: logDirResolverOptions{GOOS: "linux", userHomeDir: home, getenv: noEnv},
			want: filepath.Join("/home/u", ".local", "state", "quickdim", "logs"),
		},
		{
			name: "windows",
			opts: logDirResolverOptions{
				GOOS: "windows",
				getenv: func(key string) string {
					if key == "LOCALAPPDATA" {
						return `C:\Users\u\AppData\Local`
					}
					return ""
				},
			},
			want: filepath.Join(`C:\Users\u\AppData\Local`, "quickdim", "Logs"),
		},
		{
			name: "unknown platform falls back",
			opts: logDirResolverOptions{GOOS: "plan9", getenv: noEnv},
			want: fallbackLogDir,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveDefaultLogDir(tc.opts); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
