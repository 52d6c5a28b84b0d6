package entities

import "sort"

// Whitelist maps package name -> module name -> expected error substring.
// It is read-only once constructed.
type Whitelist struct {
	entries map[string]map[string]string
}

// WhitelistKey identifies one whitelist entry
type WhitelistKey struct {
	Package string `json:"package"`
	Module  string `json:"module"`
}

// NewWhitelist copies entries into an immutable Whitelist
func NewWhitelist(entries map[string]map[string]string) *Whitelist {
	copied := make(map[string]map[string]string, len(entries))
	for pkg, modules := range entries {
		inner := make(map[string]string, len(modules))
		for module, pattern := range modules {
			inner[module] = pattern
		}
		copied[pkg] = inner
	}
	return &Whitelist{entries: copied}
}

// EmptyWhitelist returns a whitelist with no suppressions
func EmptyWhitelist() *Whitelist {
	return &Whitelist{entries: map[string]map[string]string{}}
}

// Pattern returns the expected error substring for a package/module pair
func (w *Whitelist) Pattern(packageName, module string) (string, bool) {
	if w == nil {
		return "", false
	}
	modules, ok := w.entries[packageName]
	if !ok {
		return "", false
	}
	pattern, ok := modules[module]
	return pattern, ok
}

// Len returns the number of packages with entries
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return len(w.entries)
}

// Keys returns every declared entry, sorted by package then module
func (w *Whitelist) Keys() []WhitelistKey {
	if w == nil {
		return nil
	}
	keys := make([]WhitelistKey, 0)
	for pkg, modules := range w.entries {
		for module := range modules {
			keys = append(keys, WhitelistKey{Package: pkg, Module: module})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Package != keys[j].Package {
			return keys[i].Package < keys[j].Package
		}
		return keys[i].Module < keys[j].Module
	})
	return keys
}

// WhitelistUsage is the set of entries that suppressed a real failure
type WhitelistUsage map[WhitelistKey]struct{}

// Add records a used entry
func (u WhitelistUsage) Add(key WhitelistKey) {
	u[key] = struct{}{}
}

// Contains reports whether the entry was used
func (u WhitelistUsage) Contains(key WhitelistKey) bool {
	_, ok := u[key]
	return ok
}

// Merge adds all keys from other
func (u WhitelistUsage) Merge(other WhitelistUsage) {
	for key := range other {
		u[key] = struct{}{}
	}
}
