package framework

// TestLogger receives the progress of a test run as it happens. The console
// reporter in the main package is the standard implementation.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
	// TestCleanupError reports a failed cleanup for a test that has already
	// finished. It does not imply the test failed.
	TestCleanupError(id TestID, err error)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
func (n nullTestLogger) TestCleanupError(TestID, error)            {}
