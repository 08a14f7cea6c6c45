package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		name  string
		start [3]string
		info  debug.BuildInfo
		want  [3]string
	}{
		{
			name:  "module version and vcs stamps",
			start: [3]string{"dev", "none", "unknown"},
			info: debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			want: [3]string{"v0.3.1", "abc123", "2026-01-02T03:04:05Z"},
		},
		{
			name:  "devel build keeps defaults",
			start: [3]string{"dev", "none", "unknown"},
			info:  debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:  [3]string{"dev", "none", "unknown"},
		},
		{
			name:  "ldflags win",
			start: [3]string{"v1.0.0", "fff", "today"},
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			want: [3]string{"v1.0.0", "fff", "today"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.start[0], tt.start[1], tt.start[2]
			fillFrom(&tt.info)
			if got := [3]string{Version, Commit, Date}; got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: "+Version) {
		t.Errorf("String() = %q", String())
	}
}
