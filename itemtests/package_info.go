// Package itemtests contains the tests in our contract test suite for the
// items API, and the scope type T that they are written against.
//
// The tests are grouped into four independent areas: "smoke" proves the
// service is up and minimally functional, "positive" exercises the documented
// happy paths, "negative" probes error handling, and "validation" walks the
// field-level rules and their boundaries. Groups share no state; every item a
// test creates is removed by a deferred cleanup when its scope ends.
package itemtests
