//go:build linux

package focus

import "testing"

func TestParseGeometryShell(t *testing.T) {
	out := "WINDOW=69206020\nX=1985\nY=87\nWIDTH=1724\nHEIGHT=1288\nSCREEN=0\n"

	x, y, ok := parseGeometryShell(out)
	if !ok {
		t.Fatal("expected geometry to parse")
	}
	if x != 1985 || y != 87 {
		t.Errorf("got (%d, %d), want (1985, 87)", x, y)
	}
}

func TestParseGeometryShell_Incomplete(t *testing.T) {
	cases := []string{
		"",
		"WINDOW=1\nWIDTH=100\n",
		"X=10\n",        // missing Y
		"X=ten\nY=20\n", // non-numeric
	}
	for _, out := range cases {
		if _, _, ok := parseGeometryShell(out); ok {
			t.Errorf("parseGeometryShell(%q): expected ok=false", out)
		}
	}
}
