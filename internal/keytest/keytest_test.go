package keytest_test

import (
	"testing"

	"github.com/halvard/keystream/internal/keycode"
	"github.com/halvard/keystream/internal/keytest"
)

func TestCatcherRecordsReportsInOrder(t *testing.T) {
	base := keytest.NewCatcher()
	catcher := base.Reporter.(*keytest.Catcher)

	catcher.SendKeys(keycode.A)
	catcher.SendKeys(keycode.B, keycode.LShift)

	keytest.CheckOutput(t, catcher, [][]keycode.Code{
		{keycode.A},
		{keycode.LShift, keycode.B}, // order within a report must not matter
	})
}

func TestCatcherClearDropsRecordedReports(t *testing.T) {
	base := keytest.NewCatcher()
	catcher := base.Reporter.(*keytest.Catcher)

	catcher.SendKeys(keycode.A)
	catcher.Clear()

	if len(catcher.Reports) != 0 {
		t.Fatalf("expected no reports after Clear, got %v", catcher.Reports)
	}
}
