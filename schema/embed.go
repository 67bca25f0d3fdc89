package schema

import _ "embed"

// RunV1Schema contains the JSON schema for run manifests.
//
//go:embed run.v1.json
var RunV1Schema []byte
