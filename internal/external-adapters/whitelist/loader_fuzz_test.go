package whitelist

import (
	"testing"
)

// FuzzWhitelistParse checks that arbitrary input either fails with a LoadError
// or yields a whitelist whose declared entries can all be looked up.
//
// Run with: go test -fuzz=FuzzWhitelistParse -fuzztime=30s
func FuzzWhitelistParse(f *testing.F) {
	f.Add([]byte(`{"a.whl": {"a._native": "undefined symbol"}}`))
	f.Add([]byte(`{"a.whl": {}}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(``))
	f.Add([]byte(`[]`))
	f.Add([]byte(`{"a.whl": "oops"}`))
	f.Add([]byte(`{"a.whl": {"m": 1}}`))
	f.Add([]byte(`{"a.whl": {"m": null}}`))

	loader := NewLoader(nil)

	f.Fuzz(func(t *testing.T, data []byte) {
		wl, err := loader.Parse("fuzz.json", data)
		if err != nil {
			if _, ok := err.(*LoadError); !ok {
				t.Fatalf("expected *LoadError, got %T: %v", err, err)
			}
			return
		}
		for _, key := range wl.Keys() {
			if _, ok := wl.Pattern(key.Package, key.Module); !ok {
				t.Fatalf("entry %v declared but not found", key)
			}
		}
	})
}
