package clarity

import (
	"github.com/dop251/goja"

	"github.com/neotools/neo-clarity/common"
)

// mapping is a JS facing view of a Go object.
type mapping = map[string]interface{}

// gojaValueExists returns true if a given value is not nil and exists
// (defined and not null) in the goja runtime.
func gojaValueExists(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// identifyFromJS returns the identify capability behind v. A value that is
// not callable means the page has no capability and yields nil.
func identifyFromJS(rt *goja.Runtime, v goja.Value) common.IdentifyFunc {
	if !gojaValueExists(v) {
		return nil
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil
	}

	return func(userID, sessionID string) error {
		_, err := fn(goja.Undefined(), rt.ToValue("identify"), rt.ToValue(userID), rt.ToValue(sessionID))
		return err //nolint:wrapcheck
	}
}

// globalIdentify looks the capability up on the global object, the way an
// embedded tracker finds window.clarity.
func globalIdentify(rt *goja.Runtime) common.IdentifyFunc {
	return identifyFromJS(rt, rt.GlobalObject().Get("clarity"))
}
