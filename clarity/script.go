package clarity

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"

	"github.com/neotools/neo-clarity/clarity/js"
	"github.com/neotools/neo-clarity/common"
)

// projectIDPattern matches Clarity project ids.
var projectIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)

var hostScriptTemplate = template.Must(template.New("host").Parse(js.HostScriptTemplate))

// ConfigScript renders the script tags a host page includes before the
// tracker: the tracker configuration and, when projectID is set, the
// Clarity loader.
func ConfigScript(cfg common.Config, projectID string) (template.HTML, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("rendering host script: %w", err)
	}
	if projectID != "" && !projectIDPattern.MatchString(projectID) {
		return "", fmt.Errorf("rendering host script: invalid Clarity project id %q", projectID)
	}

	var buf bytes.Buffer
	err := hostScriptTemplate.Execute(&buf, struct {
		Config    mapping
		ProjectID string
	}{
		Config:    exportConfig(cfg),
		ProjectID: projectID,
	})
	if err != nil {
		return "", fmt.Errorf("rendering host script: %w", err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec
}
