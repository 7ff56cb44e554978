package focus

import (
	"context"
	"testing"
	"time"
)

func TestParseSample(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Sample
	}{
		{"plain", "Safari|100,200", Sample{App: "Safari", X: 100, Y: 200, Known: true}},
		{"trailing newline", "Terminal|0,0\n", Sample{App: "Terminal", X: 0, Y: 0, Known: true}},
		{"negative origin", "Code|-1920,50", Sample{App: "Code", X: -1920, Y: 50, Known: true}},
		{"spaces around coords", "App| 10 , 20 ", Sample{App: "App", X: 10, Y: 20, Known: true}},
		{"app name with spaces", "Google Chrome|5,5", Sample{App: "Google Chrome", X: 5, Y: 5, Known: true}},
		{"missing separator", "Safari", Sample{}},
		{"missing comma", "Safari|100", Sample{}},
		{"non-numeric x", "Safari|abc,200", Sample{}},
		{"non-numeric y", "Safari|100,def", Sample{}},
		{"empty", "", Sample{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseSample(tc.in); got != tc.want {
				t.Errorf("parseSample(%q): got %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCurrent_UsesSampleFunc(t *testing.T) {
	orig := SampleFunc
	t.Cleanup(func() { SampleFunc = orig })

	var gotDeadline bool
	SampleFunc = func(ctx context.Context) Sample {
		_, gotDeadline = ctx.Deadline()
		return Sample{App: "stub", X: 1, Y: 2, Known: true}
	}

	s := Current(time.Second)
	if !s.Known || s.App != "stub" {
		t.Errorf("Current: got %+v, want stub sample", s)
	}
	if !gotDeadline {
		t.Error("Current should pass a deadline-bounded context to SampleFunc")
	}
}
