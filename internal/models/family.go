package models

import "strings"

// ProviderFamily identifies the upstream model line a request is routed to.
type ProviderFamily string

const (
	FamilyGPT    ProviderFamily = "gpt"
	FamilyClaude ProviderFamily = "claude"
	FamilyLlama  ProviderFamily = "llama"
)

// AllFamilies lists every supported family in classification order.
var AllFamilies = []ProviderFamily{FamilyGPT, FamilyClaude, FamilyLlama}

// FamilyForModel classifies a cleaned model identifier into a provider family.
// The rules are ordered and first match wins. The router uses this to pick an
// adapter and the usage summary uses it to bucket stored model names, so the
// two can never disagree.
func FamilyForModel(model string) (ProviderFamily, bool) {
	switch {
	case strings.HasPrefix(model, "gpt"):
		return FamilyGPT, true
	case strings.HasPrefix(model, "claude"):
		return FamilyClaude, true
	case strings.Contains(model, "llama"):
		return FamilyLlama, true
	}
	return "", false
}
