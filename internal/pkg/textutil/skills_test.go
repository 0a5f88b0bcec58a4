package textutil

import (
	"reflect"
	"testing"
)

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{" Go ", "go", "", "  ", "Distributed   Systems", "SQL"})
	want := []string{"Go", "Distributed Systems", "SQL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
	if got := NormalizeList(nil); got == nil || len(got) != 0 {
		t.Fatalf("NormalizeList(nil) = %#v", got)
	}
}

func TestSplitSkills(t *testing.T) {
	got := SplitSkills("React, Node.js,, react , TypeScript")
	want := []string{"React", "Node.js", "TypeScript"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSkills = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("hi", 10); got != "hi" {
		t.Fatalf("Truncate = %q", got)
	}
}
