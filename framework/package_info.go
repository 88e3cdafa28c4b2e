// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier, to accumulate
// success/failure results, and to register cleanups that are guaranteed to run when the
// test's scope ends.
//
// 2. Tests are selected with regex filters over their slash-joined identifiers, and a
// test run's progress is reported through a TestLogger, with results collected for a
// console summary and an optional JSON report file.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the HTTP client bound to the service under test, the fixtures that create and release
// resources in it, and a domain-specific test API on top of the test context.
package framework
