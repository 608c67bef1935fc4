package model

// Package model defines domain data structures used across the app: episodes
// extracted from the archive snapshot, download tasks with their outcomes,
// run summaries, and status enums. Structures are plain data; everything
// stateful lives in the services that produce them.
