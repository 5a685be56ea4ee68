package http

import "testing"

func TestParseDeepLink(t *testing.T) {
	cases := []struct {
		in   string
		want DeepLink
		ok   bool
	}{
		{"#/quiz/abc", DeepLink{Kind: DeepLinkQuiz, ID: "abc"}, true},
		{"#/result/r-1", DeepLink{Kind: DeepLinkResult, ID: "r-1"}, true},
		{"https://trivia.example.com/#/quiz/xyz", DeepLink{Kind: DeepLinkQuiz, ID: "xyz"}, true},
		{"/quiz/abc", DeepLink{Kind: DeepLinkQuiz, ID: "abc"}, true},
		{"#/quiz/", DeepLink{}, false},
		{"#/quiz", DeepLink{}, false},
		{"#/profile/abc", DeepLink{}, false},
		{"#/quiz/a/b", DeepLink{}, false},
		{"", DeepLink{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDeepLink(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDeepLink(%q) = %+v, %v; want %+v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDeepLinkURL(t *testing.T) {
	link := DeepLink{Kind: DeepLinkResult, ID: "r-1"}
	if got := link.URL("https://trivia.example.com/"); got != "https://trivia.example.com/#/result/r-1" {
		t.Fatalf("unexpected url %s", got)
	}
	if back, ok := ParseDeepLink(link.URL("https://trivia.example.com")); !ok || back != link {
		t.Fatalf("link did not round-trip: %+v", back)
	}
}
