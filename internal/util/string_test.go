package util

import "testing"

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello", 10); got != "hello" {
		t.Errorf("TruncateString short = %q", got)
	}
	if got := TruncateString("hello world", 5); got != "hello..." {
		t.Errorf("TruncateString long = %q", got)
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "https://www.linkedin.com/in/jane-doe/"},
		{"The profile is https://www.linkedin.com/in/jane-doe/ as requested.", "https://www.linkedin.com/in/jane-doe/"},
		{"I found https://www.linkedin.com/in/jane-doe.", "https://www.linkedin.com/in/jane-doe"},
		{"  no url here  ", "no url here"},
	}

	for _, tt := range tests {
		if got := ExtractURL(tt.in); got != tt.want {
			t.Errorf("ExtractURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"janedoe", "janedoe"},
		{"@janedoe", "janedoe"},
		{"https://x.com/janedoe", "janedoe"},
		{"https://twitter.com/janedoe/", "janedoe"},
		{"The username is janedoe", "The username is janedoe"},
	}

	for _, tt := range tests {
		if got := ExtractHandle(tt.in); got != tt.want {
			t.Errorf("ExtractHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
