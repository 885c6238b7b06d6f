package shell

import _ "embed"

//go:embed helptext/usage.txt
var usageText string
