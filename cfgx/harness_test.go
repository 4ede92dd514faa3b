package cfgx

import "testing"

type testCase struct {
	name string
	run  func(t *testing.T)
}

// runTestCases runs each case as a subtest. Cases without a body are
// reported as skipped so placeholders stay visible in -v output.
func runTestCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.run == nil {
				t.Skipf("%s has no body", tc.name)
			}
			tc.run(t)
		})
	}
}
