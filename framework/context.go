package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents a running test or subtest. It provides the subset of
// testing.T behavior that the assert and require packages need (Errorf and
// FailNow), plus subtests, skipping, per-test debug output, and scoped
// cleanup registration.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func() error
	cleanupErrs []error
}

// Run executes a test suite action within a root Context and returns the
// accumulated results. The filter, if not nil, decides which tests run.
func Run(
	filter func(TestID) bool,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		r := recover()
		c.runCleanups()
		if r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if c.skipped || len(c.id.Path) == 0 {
			// skipped tests and the root scope produce no result
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, CleanupErrors: c.cleanupErrs}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		if err := runCleanup(c.cleanups[i]); err != nil {
			c.cleanupErrs = append(c.cleanupErrs, err)
			c.env.testLogger.TestCleanupError(c.id, err)
		}
	}
	c.cleanups = nil
}

func runCleanup(cleanup func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during cleanup: %+v", r)
		}
	}()
	return cleanup()
}

func (c *Context) ID() TestID {
	return c.id
}

// Run executes a subtest within its own child Context. The subtest's cleanups
// run before Run returns, so a resource acquired inside the subtest never
// outlives it.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.child(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a test failure without stopping the test. Assertions from
// the assert package call this.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

// FailNow stops the test immediately. Assertions from the require package
// call this after Errorf.
func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers a cleanup to run when this test's scope ends. Cleanups run
// in last-in-first-out order on every exit path, including assertion failures
// and unexpected panics. A cleanup error never changes the test's outcome; it
// is recorded in the result's CleanupErrors and reported through the test
// logger so leaked resources stay visible.
func (c *Context) Defer(cleanup func() error) {
	c.cleanups = append(c.cleanups, cleanup)
}

// Debug logs a message that is captured for this test and shown according to
// the test logger's debug settings.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// testify's failure messages begin with a newline and tab indentation that
// looks wrong in our console output
func reformatError(err error) error {
	return errors.New(strings.TrimSpace(err.Error()))
}
