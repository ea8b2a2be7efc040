// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for CamIO components.
//
// Configuration is loaded from a single file specified by:
//   - CAMIO_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
package config
