package vector

import "testing"

func TestIndexName(t *testing.T) {
	if got := IndexName("PoliticalOpinions"); got != "politicalopinions_embedding_idx" {
		t.Errorf("IndexName = %q", got)
	}
}

func TestIsSafeLabel(t *testing.T) {
	for _, s := range []string{"Respondent", "Survey", "q_1"} {
		if !isSafeLabel(s) {
			t.Errorf("isSafeLabel(%q) should pass", s)
		}
	}
	for _, s := range []string{"", "1x", "a b", "x;y"} {
		if isSafeLabel(s) {
			t.Errorf("isSafeLabel(%q) should fail", s)
		}
	}
}
