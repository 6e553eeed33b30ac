package testing

import (
	"testing"

	"github.com/go-drift/livehooks/pkg/lifecycle"
)

const finderPage = `<main>
<section id="menu" class="panel">
  <a href="/a" data-mobile-link>Home</a>
  <a href="/b" data-mobile-link>About us</a>
</section>
<p class="note"><span>Home</span></p>
</main>`

func mounted(t *testing.T) *HookTester {
	tester := NewHookTesterWithT(t, lifecycle.NewRegistry())
	tester.MustMount(finderPage)
	return tester
}

func TestBySelector(t *testing.T) {
	tester := mounted(t)

	result := tester.Find(BySelector("a[data-mobile-link]"))
	if result.Count() != 2 {
		t.Errorf("expected 2 links, got %d", result.Count())
	}
	if got := result.At(1).Data; got != "a" {
		t.Errorf("expected <a>, got %q", got)
	}
}

func TestByText(t *testing.T) {
	tester := mounted(t)

	result := tester.Find(ByText("Home"))
	if result.Count() != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Count())
	}
	// The innermost element wins over the <p> wrapping the span.
	if got := result.At(1).Data; got != "span" {
		t.Errorf("expected span, got %q", got)
	}
}

func TestByTextContaining(t *testing.T) {
	tester := mounted(t)

	result := tester.Find(ByTextContaining("About"))
	if !result.Exists() {
		t.Fatal("expected a match")
	}
	if result.Attr("href") != "/b" {
		t.Errorf("expected /b, got %q", result.Attr("href"))
	}
}

func TestByAttr(t *testing.T) {
	tester := mounted(t)

	if !tester.Find(ByAttr("href", "/a")).Exists() {
		t.Error("expected a match for href=/a")
	}
	if tester.Find(ByAttr("href", "/c")).Exists() {
		t.Error("expected no match for href=/c")
	}
}

func TestDescendant(t *testing.T) {
	tester := mounted(t)

	result := tester.Find(Descendant(BySelector("#menu"), ByText("Home")))
	if result.Count() != 1 {
		t.Fatalf("expected 1 match, got %d", result.Count())
	}
	if !tester.Find(BySelector("#menu")).HasClass("panel") {
		t.Error("expected panel class")
	}
}

func TestFinderResult_FirstOrNil(t *testing.T) {
	tester := mounted(t)

	if tester.Find(BySelector("table")).FirstOrNil() != nil {
		t.Error("expected nil for no matches")
	}
	if tester.Find(BySelector("main")).FirstOrNil() == nil {
		t.Error("expected non-nil for a match")
	}
}

func TestFinderResult_First_PanicsOnEmpty(t *testing.T) {
	tester := mounted(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	tester.Find(BySelector("table")).First()
}
