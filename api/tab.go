package api

import (
	"github.com/neotools/neo-clarity/common"
)

// Tab is the public interface of a simulated browser tab. Page loads within
// a tab share one session storage scope.
type Tab interface {
	Clear() error
	Navigate(rawURL string, identify common.IdentifyFunc) (*common.PageLoad, error)
	SessionItem(key string) (string, bool)
	State(rawURL string) (common.State, error)
}
