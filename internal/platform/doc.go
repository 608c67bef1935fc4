package platform

// Package platform contains OS and external tooling glue: filesystem helpers
// and the subprocess runner that executes download tools (wget, curl) with
// captured output.
