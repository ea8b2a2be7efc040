// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package asset

// displayNames maps the language tags drawings ship with to the
// display names interpolated into the model's instructions.
var displayNames = map[string]string{
	"en-US": "English (US)",
	"en-GB": "English (UK)",
	"it-IT": "Italian",
	"es-ES": "Spanish",
	"fr-FR": "French",
	"de-DE": "German",
	"pt-PT": "Portuguese",
	"ja-JP": "Japanese",
}

// DisplayLanguage returns the display name for a BCP 47 language tag.
// Unknown tags fall back to "English (US)", matching the session
// configuration default.
func DisplayLanguage(tag string) string {
	if name, ok := displayNames[tag]; ok {
		return name
	}
	return "English (US)"
}
