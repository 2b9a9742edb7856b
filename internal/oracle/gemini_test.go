package oracle

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"response: hi", "response: hi"},
		{"```yaml\nresponse: hi\n```", "response: hi"},
		{"```\nresponse: hi\n```", "response: hi"},
		{"  \n```yaml\nresponse: hi\n```\n  ", "response: hi"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
