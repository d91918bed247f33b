package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	if k, ok := LookupKeyword("function"); !ok || k != KwFunction {
		t.Fatalf("function: got %v %v", k, ok)
	}
	for _, word := range []string{"as", "from", "of", "async", "await", "let", "static", "get", "set"} {
		if _, ok := LookupKeyword(word); ok {
			t.Errorf("%q must stay a contextual identifier", word)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		UShrAssign:   ">>>=",
		KwInstanceof: "instanceof",
		EOF:          "end of file",
		Kind(250):    "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !KwWith.IsKeyword() || Ident.IsKeyword() {
		t.Fatal("keyword range is off")
	}
	if !QuestionQuestionAssign.IsAssign() || EqEq.IsAssign() {
		t.Fatal("assignment range is off")
	}
}
