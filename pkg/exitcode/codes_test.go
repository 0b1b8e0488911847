package exitcode

import "testing"

func TestCodesAreDistinct(t *testing.T) {
	codes := map[string]int{
		"Success":      Success,
		"FilesFailed":  FilesFailed,
		"GitError":     GitError,
		"TimeoutError": TimeoutError,
		"UsageError":   UsageError,
		"NotGitRepo":   NotGitRepo,
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if other, ok := seen[code]; ok {
			t.Errorf("%s and %s share exit code %d", name, other, code)
		}
		seen[code] = name
	}
	if Success != 0 {
		t.Errorf("Success must be 0, got %d", Success)
	}
}
