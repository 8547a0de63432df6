package common

// PageLoad is the outcome of running the gate for one page load.
type PageLoad struct {
	URL        string `js:"url"`
	Active     bool   `js:"active"`
	State      State  `js:"state"`
	Identified bool   `js:"identified"`
}
