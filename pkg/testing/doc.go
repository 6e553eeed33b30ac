// Package testing provides a hook testing harness for livehooks.
//
// # Quick Start
//
// Register the hooks under test, mount markup and make assertions:
//
//	func TestMyHook(t *testing.T) {
//	    reg := lifecycle.NewRegistry()
//	    reg.Register("Counter", newCounter)
//
//	    tester := hooktest.NewHookTesterWithT(t, reg)
//	    tester.MustMount(`<button id="c" phx-hook="Counter">0</button>`)
//
//	    tester.Click("#c")
//	    tester.Settle()
//
//	    if !tester.Find(hooktest.ByText("1")).Exists() {
//	        t.Error("expected '1'")
//	    }
//	}
//
// Mount attaches every hook node; Sync reconciles after the markup changed,
// the same way the host does after a server patch.
//
// # Time
//
// Deferred callbacks go through a FakeClock. Nothing fires until the test
// advances it:
//
//	tester.Advance(300 * time.Millisecond)
//
// # Asynchronous work
//
// Work started with loop.Await runs on real goroutines. Settle waits for it
// and runs every continuation it posted to the UI loop.
//
// # Snapshot Testing
//
// Capture and compare the rendered HTML of a node:
//
//	tester.CaptureSnapshot("#chart").MatchesFile(t, "testdata/chart.html")
//
// Update snapshots with:
//
//	LIVEHOOKS_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import hooktest "github.com/go-drift/livehooks/pkg/testing"
package testing
