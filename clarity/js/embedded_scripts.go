package js

import (
	_ "embed"
)

// HostScriptTemplate is the html/template source of the script tags a host
// page includes before the tracker. It sets window.NEO_CLARITY.config and,
// given a project id, loads Clarity with the standard bootstrap snippet.
//
//go:embed host_script.html
var HostScriptTemplate string
