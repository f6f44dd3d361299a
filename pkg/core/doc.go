// Package core defines the shared language of the leapcode system.
//
// This package contains:
//   - Result data (ResultTable, Column, Metadata)
//   - Service interfaces (Adapter)
//   - Configuration types (TargetConfig, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
