package call

import (
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// anonymousFunc matches the symbol suffixes the compiler generates for
// function literals (pkg.f.func1, pkg.f.func2.1, ...).
var anonymousFunc = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// synthesizeNames derives a display name for every unnamed entry so the
// final name vector has no empty slots. Explicit names are never
// overwritten. Positions are 1-based in the fallback form "fn<position>".
func synthesizeNames(list *List) {
	for i, d := range list.entries {
		if d.name != "" {
			continue
		}

		d.name = synthesize(d, i+1)
	}
}

// synthesize derives a name for a single entry.
func synthesize(d *Deferred, position int) string {
	if d.head != "" {
		return d.head
	}

	if d.fn != nil {
		if name := funcName(d.fn); name != "" {
			return name
		}
	}

	return "fn" + strconv.Itoa(position)
}

// funcName resolves a function value's symbol and trims package path and
// receiver decoration. Returns "" for anonymous functions, whose generated
// symbols carry no meaning for display.
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()

	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}

	name := f.Name()

	// Method values carry a "-fm" wrapper suffix.
	name = strings.TrimSuffix(name, "-fm")

	// Generated literal symbols carry no meaning for display.
	if anonymousFunc.MatchString(name) {
		return ""
	}

	// Strip the import path, keeping "pkg.(*T).Method" style tails.
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	// Strip package and receiver qualifiers.
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}
