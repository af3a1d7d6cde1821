package inference

import (
	"fmt"
	"sort"
	"strings"
)

// Credentials maps model identifiers to API keys. Each model may use its own key.
type Credentials struct {
	keys map[string]string
}

// NewCredentials copies keys, dropping blank entries.
func NewCredentials(keys map[string]string) Credentials {
	out := make(map[string]string, len(keys))
	for model, key := range keys {
		model = strings.TrimSpace(model)
		key = strings.TrimSpace(key)
		if model == "" || key == "" {
			continue
		}
		out[model] = key
	}
	return Credentials{keys: out}
}

// Lookup returns the API key for model or ErrMissingCredential.
func (c Credentials) Lookup(model string) (string, error) {
	key, ok := c.keys[strings.TrimSpace(model)]
	if !ok {
		return "", fmt.Errorf("%w for model %q", ErrMissingCredential, model)
	}
	return key, nil
}

// Models lists the configured model identifiers in sorted order.
func (c Credentials) Models() []string {
	models := make([]string, 0, len(c.keys))
	for model := range c.keys {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
